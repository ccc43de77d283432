package query

import (
	"time"

	"github.com/mwantia/joinpractice/pkg/db/models"
)

// Flat rows returned by the sql and builder styles. Columns of the joined
// side are pointers because a left join yields NULL when nothing matches.

type blogPostRow struct {
	BlogID              uint
	BlogName            string
	BlogCreatedAt       time.Time
	JoinedPostID        *uint
	JoinedPostTitle     *string
	JoinedPostContent   *string
	JoinedPostCreatedAt *time.Time
}

type blogHeaderRow struct {
	BlogID        uint
	BlogName      string
	BlogCreatedAt time.Time
	HeaderID      *uint
	HeaderTitle   *string
	HeaderBlogID  *uint
}

type postBlogRow struct {
	PostID              uint
	PostTitle           string
	PostContent         string
	PostCreatedAt       time.Time
	PostBlogID          *uint
	JoinedBlogID        *uint
	JoinedBlogName      *string
	JoinedBlogCreatedAt *time.Time
}

type postTagRow struct {
	PostID        uint
	PostTitle     string
	PostContent   string
	PostCreatedAt time.Time
	PostBlogID    *uint
	TagID         *uint
	TagName       *string
}

type postCommentRow struct {
	PostID           uint
	PostTitle        string
	PostContent      string
	PostCreatedAt    time.Time
	PostBlogID       *uint
	CommentID        *uint
	CommentContent   *string
	CommentCreatedAt *time.Time
}

func newBlog(id uint, name string, createdAt time.Time) models.Blog {
	return models.Blog{
		ID:        id,
		Name:      name,
		CreatedAt: createdAt,
	}
}

func newPost(id uint, title, content string, createdAt time.Time, blogID *uint) models.Post {
	return models.Post{
		ID:        id,
		Title:     title,
		Content:   content,
		CreatedAt: createdAt,
		BlogID:    blogID,
	}
}

// grouper collects rows that share a root key into one entry, keeping the
// order in which roots first appear
type grouper[T any] struct {
	items []T
	index map[uint]int
}

func newGrouper[T any]() *grouper[T] {
	return &grouper[T]{
		items: []T{},
		index: make(map[uint]int),
	}
}

// get returns the entry for id, creating it with create on first sight
func (g *grouper[T]) get(id uint, create func() T) *T {
	i, ok := g.index[id]
	if !ok {
		g.items = append(g.items, create())
		i = len(g.items) - 1
		g.index[id] = i
	}
	return &g.items[i]
}

func groupBlogPosts(rows []blogPostRow) []models.Blog {
	g := newGrouper[models.Blog]()
	for _, row := range rows {
		blog := g.get(row.BlogID, func() models.Blog {
			b := newBlog(row.BlogID, row.BlogName, row.BlogCreatedAt)
			b.Posts = []models.Post{}
			return b
		})

		if row.JoinedPostID == nil {
			continue
		}
		blogID := row.BlogID
		blog.Posts = append(blog.Posts, models.Post{
			ID:        *row.JoinedPostID,
			Title:     deref(row.JoinedPostTitle),
			Content:   deref(row.JoinedPostContent),
			CreatedAt: deref(row.JoinedPostCreatedAt),
			BlogID:    &blogID,
		})
	}
	return g.items
}

func groupBlogHeaders(rows []blogHeaderRow) []models.Blog {
	g := newGrouper[models.Blog]()
	for _, row := range rows {
		blog := g.get(row.BlogID, func() models.Blog {
			return newBlog(row.BlogID, row.BlogName, row.BlogCreatedAt)
		})

		if row.HeaderID == nil {
			continue
		}
		blog.Header = &models.BlogHeader{
			ID:     *row.HeaderID,
			Title:  deref(row.HeaderTitle),
			BlogID: row.HeaderBlogID,
		}
	}
	return g.items
}

func groupPostBlogs(rows []postBlogRow) []models.Post {
	g := newGrouper[models.Post]()
	for _, row := range rows {
		post := g.get(row.PostID, func() models.Post {
			return newPost(row.PostID, row.PostTitle, row.PostContent, row.PostCreatedAt, row.PostBlogID)
		})

		if row.JoinedBlogID == nil {
			continue
		}
		post.Blog = &models.Blog{
			ID:        *row.JoinedBlogID,
			Name:      deref(row.JoinedBlogName),
			CreatedAt: deref(row.JoinedBlogCreatedAt),
		}
	}
	return g.items
}

func groupPostTags(rows []postTagRow) []models.Post {
	g := newGrouper[models.Post]()
	for _, row := range rows {
		post := g.get(row.PostID, func() models.Post {
			p := newPost(row.PostID, row.PostTitle, row.PostContent, row.PostCreatedAt, row.PostBlogID)
			p.Tags = []models.Tag{}
			return p
		})

		if row.TagID == nil {
			continue
		}
		post.Tags = append(post.Tags, models.Tag{
			ID:   *row.TagID,
			Name: deref(row.TagName),
		})
	}
	return g.items
}

func groupPostComments(rows []postCommentRow) []models.Post {
	g := newGrouper[models.Post]()
	for _, row := range rows {
		post := g.get(row.PostID, func() models.Post {
			p := newPost(row.PostID, row.PostTitle, row.PostContent, row.PostCreatedAt, row.PostBlogID)
			p.Comments = []models.Comment{}
			return p
		})

		if row.CommentID == nil {
			continue
		}
		postID := row.PostID
		post.Comments = append(post.Comments, models.Comment{
			ID:        *row.CommentID,
			Content:   deref(row.CommentContent),
			CreatedAt: deref(row.CommentCreatedAt),
			PostID:    &postID,
		})
	}
	return g.items
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}
