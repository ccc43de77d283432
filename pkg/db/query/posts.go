package query

import (
	"context"

	"github.com/mwantia/joinpractice/pkg/db/models"
	"gorm.io/gorm"
)

const (
	postsBlogLeftSQL = `
SELECT p.id AS post_id, p.title AS post_title, p.content AS post_content,
       p.created_at AS post_created_at, p.blog_id AS post_blog_id,
       b.id AS joined_blog_id, b.name AS joined_blog_name, b.created_at AS joined_blog_created_at
FROM posts AS p
LEFT JOIN blogs AS b ON b.id = p.blog_id
ORDER BY p.id`

	postsBlogInnerSQL = `
SELECT p.id AS post_id, p.title AS post_title, p.content AS post_content,
       p.created_at AS post_created_at, p.blog_id AS post_blog_id,
       b.id AS joined_blog_id, b.name AS joined_blog_name, b.created_at AS joined_blog_created_at
FROM posts AS p
INNER JOIN blogs AS b ON b.id = p.blog_id
ORDER BY p.id`

	postsTagsLeftSQL = `
SELECT p.id AS post_id, p.title AS post_title, p.content AS post_content,
       p.created_at AS post_created_at, p.blog_id AS post_blog_id,
       t.id AS tag_id, t.name AS tag_name
FROM posts AS p
LEFT JOIN post_tags AS pt ON pt.post_id = p.id
LEFT JOIN tags AS t ON t.id = pt.tag_id
ORDER BY p.id, t.id`

	postsTagsInnerSQL = `
SELECT p.id AS post_id, p.title AS post_title, p.content AS post_content,
       p.created_at AS post_created_at, p.blog_id AS post_blog_id,
       t.id AS tag_id, t.name AS tag_name
FROM posts AS p
INNER JOIN post_tags AS pt ON pt.post_id = p.id
INNER JOIN tags AS t ON t.id = pt.tag_id
ORDER BY p.id, t.id`

	postsCommentsLeftSQL = `
SELECT p.id AS post_id, p.title AS post_title, p.content AS post_content,
       p.created_at AS post_created_at, p.blog_id AS post_blog_id,
       c.id AS comment_id, c.content AS comment_content, c.created_at AS comment_created_at
FROM posts AS p
LEFT JOIN comments AS c ON c.post_id = p.id
ORDER BY p.id, c.id`
)

var postColumns = []any{
	"posts.id AS post_id",
	"posts.title AS post_title",
	"posts.content AS post_content",
	"posts.created_at AS post_created_at",
	"posts.blog_id AS post_blog_id",
}

func postColumnsWith(columns ...any) []any {
	out := make([]any, 0, len(postColumns)+len(columns))
	out = append(out, postColumns...)
	return append(out, columns...)
}

var (
	postBlogColumns = postColumnsWith(
		"blogs.id AS joined_blog_id",
		"blogs.name AS joined_blog_name",
		"blogs.created_at AS joined_blog_created_at",
	)
	postTagColumns = postColumnsWith(
		"tags.id AS tag_id",
		"tags.name AS tag_name",
	)
	postCommentColumns = postColumnsWith(
		"comments.id AS comment_id",
		"comments.content AS comment_content",
		"comments.created_at AS comment_created_at",
	)
)

var postsBlogLeft = variants[models.Post]{
	StylePreload: func(tx *gorm.DB, out *[]models.Post) *gorm.DB {
		return tx.Preload("Blog").
			Order("posts.id").
			Find(out)
	},
	StyleSQL: func(tx *gorm.DB, out *[]models.Post) *gorm.DB {
		return scanPostBlogs(tx.Raw(postsBlogLeftSQL), out)
	},
	StyleBuilder: func(tx *gorm.DB, out *[]models.Post) *gorm.DB {
		return scanPostBlogs(tx.Model(&models.Post{}).
			Select(postBlogColumns[0], postBlogColumns[1:]...).
			Joins("LEFT JOIN blogs ON blogs.id = posts.blog_id").
			Order("posts.id"), out)
	},
}

var postsBlogInner = variants[models.Post]{
	StylePreload: func(tx *gorm.DB, out *[]models.Post) *gorm.DB {
		return tx.Preload("Blog").
			Where("EXISTS (SELECT 1 FROM blogs WHERE blogs.id = posts.blog_id)").
			Order("posts.id").
			Find(out)
	},
	StyleSQL: func(tx *gorm.DB, out *[]models.Post) *gorm.DB {
		return scanPostBlogs(tx.Raw(postsBlogInnerSQL), out)
	},
	StyleBuilder: func(tx *gorm.DB, out *[]models.Post) *gorm.DB {
		return scanPostBlogs(tx.Model(&models.Post{}).
			Select(postBlogColumns[0], postBlogColumns[1:]...).
			Joins("INNER JOIN blogs ON blogs.id = posts.blog_id").
			Order("posts.id"), out)
	},
}

var postsTagsLeft = variants[models.Post]{
	StylePreload: func(tx *gorm.DB, out *[]models.Post) *gorm.DB {
		return tx.Preload("Tags", orderBy("tags.id")).
			Order("posts.id").
			Find(out)
	},
	StyleSQL: func(tx *gorm.DB, out *[]models.Post) *gorm.DB {
		return scanPostTags(tx.Raw(postsTagsLeftSQL), out)
	},
	StyleBuilder: func(tx *gorm.DB, out *[]models.Post) *gorm.DB {
		return scanPostTags(tx.Model(&models.Post{}).
			Select(postTagColumns[0], postTagColumns[1:]...).
			Joins("LEFT JOIN post_tags ON post_tags.post_id = posts.id").
			Joins("LEFT JOIN tags ON tags.id = post_tags.tag_id").
			Order("posts.id").
			Order("tags.id"), out)
	},
}

var postsTagsInner = variants[models.Post]{
	StylePreload: func(tx *gorm.DB, out *[]models.Post) *gorm.DB {
		return tx.Preload("Tags", orderBy("tags.id")).
			Where("EXISTS (SELECT 1 FROM post_tags WHERE post_tags.post_id = posts.id)").
			Order("posts.id").
			Find(out)
	},
	StyleSQL: func(tx *gorm.DB, out *[]models.Post) *gorm.DB {
		return scanPostTags(tx.Raw(postsTagsInnerSQL), out)
	},
	StyleBuilder: func(tx *gorm.DB, out *[]models.Post) *gorm.DB {
		return scanPostTags(tx.Model(&models.Post{}).
			Select(postTagColumns[0], postTagColumns[1:]...).
			Joins("INNER JOIN post_tags ON post_tags.post_id = posts.id").
			Joins("INNER JOIN tags ON tags.id = post_tags.tag_id").
			Order("posts.id").
			Order("tags.id"), out)
	},
}

var postsCommentsLeft = variants[models.Post]{
	StylePreload: func(tx *gorm.DB, out *[]models.Post) *gorm.DB {
		return tx.Preload("Comments", orderBy("comments.id")).
			Order("posts.id").
			Find(out)
	},
	StyleSQL: func(tx *gorm.DB, out *[]models.Post) *gorm.DB {
		return scanPostComments(tx.Raw(postsCommentsLeftSQL), out)
	},
	StyleBuilder: func(tx *gorm.DB, out *[]models.Post) *gorm.DB {
		return scanPostComments(tx.Model(&models.Post{}).
			Select(postCommentColumns[0], postCommentColumns[1:]...).
			Joins("LEFT JOIN comments ON comments.post_id = posts.id").
			Order("posts.id").
			Order("comments.id"), out)
	},
}

func scanPostBlogs(tx *gorm.DB, out *[]models.Post) *gorm.DB {
	var rows []postBlogRow
	if tx = tx.Find(&rows); tx.Error == nil {
		*out = groupPostBlogs(rows)
	}
	return tx
}

func scanPostTags(tx *gorm.DB, out *[]models.Post) *gorm.DB {
	var rows []postTagRow
	if tx = tx.Find(&rows); tx.Error == nil {
		*out = groupPostTags(rows)
	}
	return tx
}

func scanPostComments(tx *gorm.DB, out *[]models.Post) *gorm.DB {
	var rows []postCommentRow
	if tx = tx.Find(&rows); tx.Error == nil {
		*out = groupPostComments(rows)
	}
	return tx
}

// PostsLeftJoinBlog returns every post, with a nil blog where the post has none
func (c *Catalogue) PostsLeftJoinBlog(ctx context.Context, style Style) ([]models.Post, error) {
	return execute(ctx, c, "posts-blog-left", postsBlogLeft, style)
}

// PostsInnerJoinBlog returns only posts that belong to a blog
func (c *Catalogue) PostsInnerJoinBlog(ctx context.Context, style Style) ([]models.Post, error) {
	return execute(ctx, c, "posts-blog-inner", postsBlogInner, style)
}

// PostsLeftJoinTags returns every post with its tags. Untagged posts carry an
// empty slice.
func (c *Catalogue) PostsLeftJoinTags(ctx context.Context, style Style) ([]models.Post, error) {
	return execute(ctx, c, "posts-tags-left", postsTagsLeft, style)
}

// PostsInnerJoinTags returns only posts that have at least one tag
func (c *Catalogue) PostsInnerJoinTags(ctx context.Context, style Style) ([]models.Post, error) {
	return execute(ctx, c, "posts-tags-inner", postsTagsInner, style)
}

func (c *Catalogue) PostsLeftJoinComments(ctx context.Context, style Style) ([]models.Post, error) {
	return execute(ctx, c, "posts-comments-left", postsCommentsLeft, style)
}
