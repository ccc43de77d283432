package seed

import (
	"context"
	"strings"
	"testing"

	"github.com/mwantia/joinpractice/pkg/db/dberr"
	"github.com/mwantia/joinpractice/pkg/db/dbtest"
	"github.com/mwantia/joinpractice/pkg/db/models"
	"github.com/mwantia/joinpractice/pkg/db/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seededCounts = store.Counts{
	Blogs:       3,
	BlogHeaders: 2,
	Posts:       4,
	Tags:        3,
	PostTags:    6,
	Comments:    4,
}

func TestSeedCounts(t *testing.T) {
	ctx := context.Background()
	s := dbtest.NewStore(t)

	require.NoError(t, NewSeeder(s.DB(), dbtest.Logger()).Seed(ctx))

	counts, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, seededCounts, *counts)
}

func TestSeedAssociations(t *testing.T) {
	ctx := context.Background()
	s := dbtest.NewStore(t)
	require.NoError(t, NewSeeder(s.DB(), dbtest.Logger()).Seed(ctx))

	db := s.DB()

	t.Run("headers", func(t *testing.T) {
		var blogs []models.Blog
		require.NoError(t, db.Preload("Header").Order("id").Find(&blogs).Error)
		require.Len(t, blogs, 3)

		withHeader := 0
		for _, blog := range blogs {
			if blog.Header == nil {
				assert.Equal(t, "No Header Blog", blog.Name)
				continue
			}
			withHeader++
			require.NotNil(t, blog.Header.BlogID)
			assert.Equal(t, blog.ID, *blog.Header.BlogID)
		}
		assert.Equal(t, 2, withHeader)
	})

	t.Run("tech blog posts", func(t *testing.T) {
		var blog models.Blog
		require.NoError(t, db.Preload("Posts.Tags").Preload("Posts.Comments").Where("name = ?", "Tech Blog").First(&blog).Error)
		require.Len(t, blog.Posts, 2)

		byTitle := map[string]models.Post{}
		for _, post := range blog.Posts {
			byTitle[post.Title] = post
		}

		intro := byTitle["Introduction to C#"]
		assert.Equal(t, []string{"C#"}, tagNames(intro.Tags))
		assert.Len(t, intro.Comments, 2)

		advanced := byTitle["Advanced C#"]
		assert.ElementsMatch(t, []string{"C#", "dotnet"}, tagNames(advanced.Tags))
		assert.Len(t, advanced.Comments, 2)
	})

	t.Run("blogless posts", func(t *testing.T) {
		var posts []models.Post
		require.NoError(t, db.Preload("Tags").Where("blog_id IS NULL").Order("id").Find(&posts).Error)
		require.Len(t, posts, 2)

		assert.Equal(t, "Entity Framework Core", posts[0].Title)
		assert.ElementsMatch(t, []string{"C#", "dotnet", "EF Core"}, tagNames(posts[0].Tags))

		assert.Equal(t, "Cooking", posts[1].Title)
		assert.Empty(t, posts[1].Tags)
	})

	t.Run("join entity carries timestamp", func(t *testing.T) {
		var links []models.PostTag
		require.NoError(t, db.Find(&links).Error)
		require.Len(t, links, 6)
		for _, link := range links {
			assert.False(t, link.CreatedAt.IsZero())
		}
	})
}

func TestSeedIsRepeatable(t *testing.T) {
	ctx := context.Background()
	s := dbtest.NewStore(t)
	seeder := NewSeeder(s.DB(), dbtest.Logger())

	for i := 0; i < 3; i++ {
		require.NoError(t, seeder.Seed(ctx))

		counts, err := s.Counts(ctx)
		require.NoError(t, err)
		assert.Equal(t, seededCounts, *counts, "run %d", i+1)
	}
}

func TestSeedFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	s := dbtest.NewStore(t)
	seeder := NewSeeder(s.DB(), dbtest.Logger())
	require.NoError(t, seeder.Seed(ctx))

	tests := []struct {
		name string
		data func() Dataset
		kind error
	}{
		{
			name: "blog name too long",
			data: func() Dataset {
				data := Default()
				data.Blogs[1].Name = strings.Repeat("x", 101)
				return data
			},
			kind: dberr.ErrConstraintViolation,
		},
		{
			name: "comment without content",
			data: func() Dataset {
				data := Default()
				data.Blogs[0].Posts[1].Comments = append(data.Blogs[0].Posts[1].Comments, "")
				return data
			},
			kind: dberr.ErrConstraintViolation,
		},
		{
			name: "unknown tag",
			data: func() Dataset {
				data := Default()
				data.Posts[1].Tags = []string{"Go"}
				return data
			},
			kind: dberr.ErrForeignKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := seeder.Run(ctx, tt.data())
			require.Error(t, err)
			assert.ErrorIs(t, err, dberr.ErrTransactionFailed)
			assert.ErrorIs(t, err, tt.kind)

			counts, err := s.Counts(ctx)
			require.NoError(t, err)
			assert.Equal(t, seededCounts, *counts)

			var names []string
			require.NoError(t, s.DB().Model(&models.Blog{}).Order("id").Pluck("name", &names).Error)
			assert.Equal(t, []string{"Tech Blog", "Cook blog", "No Header Blog"}, names)
		})
	}
}

func tagNames(tags []models.Tag) []string {
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	return names
}
