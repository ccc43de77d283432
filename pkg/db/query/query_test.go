package query

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/mwantia/joinpractice/pkg/db/dbtest"
	"github.com/mwantia/joinpractice/pkg/db/models"
	"github.com/mwantia/joinpractice/pkg/db/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeededCatalogue(t *testing.T) *Catalogue {
	t.Helper()

	s := dbtest.NewStore(t)
	require.NoError(t, seed.NewSeeder(s.DB(), dbtest.Logger()).Seed(context.Background()))

	return New(s.DB(), dbtest.Logger())
}

// summarize reduces a result to one line per root so styles can be compared
// without depending on timestamps or nil versus empty slices
func summarize(t *testing.T, result any) []string {
	t.Helper()

	lines := []string{}
	switch rows := result.(type) {
	case []models.Blog:
		for _, blog := range rows {
			children := []string{}
			if blog.Header != nil {
				children = append(children, "header="+blog.Header.Title)
			}
			for _, post := range blog.Posts {
				children = append(children, post.Title)
			}
			lines = append(lines, fmt.Sprintf("%s: %s", blog.Name, strings.Join(children, ", ")))
		}
	case []models.Post:
		for _, post := range rows {
			children := []string{}
			if post.Blog != nil {
				children = append(children, "blog="+post.Blog.Name)
			}
			for _, tag := range post.Tags {
				children = append(children, tag.Name)
			}
			for _, comment := range post.Comments {
				children = append(children, comment.Content)
			}
			lines = append(lines, fmt.Sprintf("%s: %s", post.Title, strings.Join(children, ", ")))
		}
	default:
		t.Fatalf("unexpected result type %T", result)
	}
	return lines
}

func TestCatalogueResults(t *testing.T) {
	c := newSeededCatalogue(t)

	tests := []struct {
		name string
		want []string
	}{
		{
			name: "blogs-posts-left",
			want: []string{
				"Tech Blog: Introduction to C#, Advanced C#",
				"Cook blog: ",
				"No Header Blog: ",
			},
		},
		{
			name: "blogs-posts-inner",
			want: []string{
				"Tech Blog: Introduction to C#, Advanced C#",
			},
		},
		{
			name: "blogs-header-left",
			want: []string{
				"Tech Blog: header=Tech Blog Header",
				"Cook blog: header=Cook Blog Header",
				"No Header Blog: ",
			},
		},
		{
			name: "blogs-header-inner",
			want: []string{
				"Tech Blog: header=Tech Blog Header",
				"Cook blog: header=Cook Blog Header",
			},
		},
		{
			name: "posts-blog-left",
			want: []string{
				"Introduction to C#: blog=Tech Blog",
				"Advanced C#: blog=Tech Blog",
				"Entity Framework Core: ",
				"Cooking: ",
			},
		},
		{
			name: "posts-blog-inner",
			want: []string{
				"Introduction to C#: blog=Tech Blog",
				"Advanced C#: blog=Tech Blog",
			},
		},
		{
			name: "posts-tags-left",
			want: []string{
				"Introduction to C#: C#",
				"Advanced C#: C#, dotnet",
				"Entity Framework Core: C#, dotnet, EF Core",
				"Cooking: ",
			},
		},
		{
			name: "posts-tags-inner",
			want: []string{
				"Introduction to C#: C#",
				"Advanced C#: C#, dotnet",
				"Entity Framework Core: C#, dotnet, EF Core",
			},
		},
		{
			name: "posts-comments-left",
			want: []string{
				"Introduction to C#: Great post!, Very helpful, thanks!",
				"Advanced C#: I need more examples, Can you cover async/await?",
				"Entity Framework Core: ",
				"Cooking: ",
			},
		},
	}

	require.Len(t, tests, len(Definitions()))

	for _, tt := range tests {
		for _, style := range Styles() {
			t.Run(tt.name+"/"+string(style), func(t *testing.T) {
				result, err := c.Run(context.Background(), tt.name, style)
				require.NoError(t, err)
				assert.Equal(t, tt.want, summarize(t, result))
			})
		}
	}
}

func TestCatalogueStylesAgree(t *testing.T) {
	c := newSeededCatalogue(t)
	ctx := context.Background()

	for _, def := range Definitions() {
		t.Run(def.Name, func(t *testing.T) {
			reference, err := c.Run(ctx, def.Name, StylePreload)
			require.NoError(t, err)

			for _, style := range []Style{StyleSQL, StyleBuilder} {
				result, err := c.Run(ctx, def.Name, style)
				require.NoError(t, err)
				assert.Equal(t, summarize(t, reference), summarize(t, result), "style %s", style)
			}
		})
	}
}

func TestCatalogueTypedAccessors(t *testing.T) {
	c := newSeededCatalogue(t)
	ctx := context.Background()

	for _, style := range Styles() {
		t.Run(string(style), func(t *testing.T) {
			posts, err := c.PostsLeftJoinTags(ctx, style)
			require.NoError(t, err)
			require.Len(t, posts, 4)

			cooking := posts[3]
			assert.Equal(t, "Cooking", cooking.Title)
			assert.NotNil(t, cooking.Tags)
			assert.Empty(t, cooking.Tags)

			posts, err = c.PostsLeftJoinBlog(ctx, style)
			require.NoError(t, err)
			require.Len(t, posts, 4)
			for _, post := range posts {
				if post.BlogID == nil {
					assert.Nil(t, post.Blog, post.Title)
					continue
				}
				require.NotNil(t, post.Blog, post.Title)
				assert.Equal(t, *post.BlogID, post.Blog.ID)
			}

			blogs, err := c.BlogsLeftJoinPosts(ctx, style)
			require.NoError(t, err)
			require.Len(t, blogs, 3)
			for i := 1; i < len(blogs); i++ {
				assert.Less(t, blogs[i-1].ID, blogs[i].ID)
			}
			for i := 1; i < len(blogs[0].Posts); i++ {
				assert.Less(t, blogs[0].Posts[i-1].ID, blogs[0].Posts[i].ID)
			}

			blogs, err = c.BlogsInnerJoinPosts(ctx, style)
			require.NoError(t, err)
			for _, blog := range blogs {
				assert.NotEmpty(t, blog.Posts, blog.Name)
			}

			blogs, err = c.BlogsInnerJoinHeader(ctx, style)
			require.NoError(t, err)
			for _, blog := range blogs {
				assert.NotNil(t, blog.Header, blog.Name)
			}

			blogs, err = c.BlogsLeftJoinHeader(ctx, style)
			require.NoError(t, err)
			assert.Len(t, blogs, 3)

			posts, err = c.PostsInnerJoinBlog(ctx, style)
			require.NoError(t, err)
			assert.Len(t, posts, 2)

			posts, err = c.PostsInnerJoinTags(ctx, style)
			require.NoError(t, err)
			for _, post := range posts {
				assert.NotEmpty(t, post.Tags, post.Title)
			}

			posts, err = c.PostsLeftJoinComments(ctx, style)
			require.NoError(t, err)
			require.Len(t, posts, 4)
			assert.Len(t, posts[0].Comments, 2)
			assert.Empty(t, posts[3].Comments)
		})
	}
}

func TestCatalogueEmptyDatabase(t *testing.T) {
	s := dbtest.NewStore(t)
	c := New(s.DB(), dbtest.Logger())

	for _, def := range Definitions() {
		for _, style := range Styles() {
			t.Run(def.Name+"/"+string(style), func(t *testing.T) {
				result, err := c.Run(context.Background(), def.Name, style)
				require.NoError(t, err)
				assert.Empty(t, summarize(t, result))
			})
		}
	}
}

func TestCatalogueErrors(t *testing.T) {
	s := dbtest.NewStore(t)
	c := New(s.DB(), dbtest.Logger())
	ctx := context.Background()

	_, err := c.Run(ctx, "posts-authors-left", StylePreload)
	assert.ErrorIs(t, err, ErrUnknownQuery)

	_, err = c.Run(ctx, "posts-blog-left", Style("linq"))
	assert.ErrorIs(t, err, ErrUnknownStyle)

	_, err = c.SQL("posts-authors-left", StyleSQL)
	assert.ErrorIs(t, err, ErrUnknownQuery)

	_, err = c.SQL("posts-blog-left", Style("linq"))
	assert.ErrorIs(t, err, ErrUnknownStyle)

	_, err = c.PostsLeftJoinBlog(ctx, Style(""))
	assert.ErrorIs(t, err, ErrUnknownStyle)
}

func TestParseStyle(t *testing.T) {
	tests := []struct {
		input string
		want  Style
		err   bool
	}{
		{"preload", StylePreload, false},
		{"SQL", StyleSQL, false},
		{" builder ", StyleBuilder, false},
		{"", "", true},
		{"lambda", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			style, err := ParseStyle(tt.input)
			if tt.err {
				assert.ErrorIs(t, err, ErrUnknownStyle)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, style)
		})
	}
}

func TestLookup(t *testing.T) {
	def, err := Lookup("posts-tags-left")
	require.NoError(t, err)
	assert.Equal(t, ManyToMany, def.Relationship)
	assert.Equal(t, LeftJoin, def.Join)

	names := map[string]bool{}
	for _, def := range Definitions() {
		assert.False(t, names[def.Name], "duplicate %s", def.Name)
		names[def.Name] = true
		assert.True(t, strings.HasSuffix(def.Name, "-"+string(def.Join)), def.Name)
	}
}

func TestCatalogueSQL(t *testing.T) {
	s := dbtest.NewStore(t)
	c := New(s.DB(), dbtest.Logger())

	for _, def := range Definitions() {
		t.Run(def.Name, func(t *testing.T) {
			keyword := "LEFT JOIN"
			if def.Join == InnerJoin {
				keyword = "INNER JOIN"
			}

			for _, style := range []Style{StyleSQL, StyleBuilder} {
				statement, err := c.SQL(def.Name, style)
				require.NoError(t, err)
				assert.Contains(t, statement, keyword, "style %s", style)
				assert.Contains(t, statement, "ORDER BY", "style %s", style)
			}

			statement, err := c.SQL(def.Name, StylePreload)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(statement, "SELECT"), statement)
			assert.NotContains(t, statement, "JOIN")
		})
	}
}
