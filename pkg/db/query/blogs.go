package query

import (
	"context"

	"github.com/mwantia/joinpractice/pkg/db/models"
	"gorm.io/gorm"
)

const (
	blogsPostsLeftSQL = `
SELECT b.id AS blog_id, b.name AS blog_name, b.created_at AS blog_created_at,
       p.id AS joined_post_id, p.title AS joined_post_title, p.content AS joined_post_content,
       p.created_at AS joined_post_created_at
FROM blogs AS b
LEFT JOIN posts AS p ON p.blog_id = b.id
ORDER BY b.id, p.id`

	blogsPostsInnerSQL = `
SELECT b.id AS blog_id, b.name AS blog_name, b.created_at AS blog_created_at,
       p.id AS joined_post_id, p.title AS joined_post_title, p.content AS joined_post_content,
       p.created_at AS joined_post_created_at
FROM blogs AS b
INNER JOIN posts AS p ON p.blog_id = b.id
ORDER BY b.id, p.id`

	blogsHeaderLeftSQL = `
SELECT b.id AS blog_id, b.name AS blog_name, b.created_at AS blog_created_at,
       h.id AS header_id, h.title AS header_title, h.blog_id AS header_blog_id
FROM blogs AS b
LEFT JOIN blog_headers AS h ON h.blog_id = b.id
ORDER BY b.id`

	blogsHeaderInnerSQL = `
SELECT b.id AS blog_id, b.name AS blog_name, b.created_at AS blog_created_at,
       h.id AS header_id, h.title AS header_title, h.blog_id AS header_blog_id
FROM blogs AS b
INNER JOIN blog_headers AS h ON h.blog_id = b.id
ORDER BY b.id`
)

var blogPostColumns = []any{
	"blogs.id AS blog_id",
	"blogs.name AS blog_name",
	"blogs.created_at AS blog_created_at",
	"posts.id AS joined_post_id",
	"posts.title AS joined_post_title",
	"posts.content AS joined_post_content",
	"posts.created_at AS joined_post_created_at",
}

var blogHeaderColumns = []any{
	"blogs.id AS blog_id",
	"blogs.name AS blog_name",
	"blogs.created_at AS blog_created_at",
	"blog_headers.id AS header_id",
	"blog_headers.title AS header_title",
	"blog_headers.blog_id AS header_blog_id",
}

var blogsPostsLeft = variants[models.Blog]{
	StylePreload: func(tx *gorm.DB, out *[]models.Blog) *gorm.DB {
		return tx.Preload("Posts", orderBy("posts.id")).
			Order("blogs.id").
			Find(out)
	},
	StyleSQL: func(tx *gorm.DB, out *[]models.Blog) *gorm.DB {
		return scanBlogPosts(tx.Raw(blogsPostsLeftSQL), out)
	},
	StyleBuilder: func(tx *gorm.DB, out *[]models.Blog) *gorm.DB {
		return scanBlogPosts(tx.Model(&models.Blog{}).
			Select(blogPostColumns[0], blogPostColumns[1:]...).
			Joins("LEFT JOIN posts ON posts.blog_id = blogs.id").
			Order("blogs.id").
			Order("posts.id"), out)
	},
}

var blogsPostsInner = variants[models.Blog]{
	StylePreload: func(tx *gorm.DB, out *[]models.Blog) *gorm.DB {
		return tx.Preload("Posts", orderBy("posts.id")).
			Where("EXISTS (SELECT 1 FROM posts WHERE posts.blog_id = blogs.id)").
			Order("blogs.id").
			Find(out)
	},
	StyleSQL: func(tx *gorm.DB, out *[]models.Blog) *gorm.DB {
		return scanBlogPosts(tx.Raw(blogsPostsInnerSQL), out)
	},
	StyleBuilder: func(tx *gorm.DB, out *[]models.Blog) *gorm.DB {
		return scanBlogPosts(tx.Model(&models.Blog{}).
			Select(blogPostColumns[0], blogPostColumns[1:]...).
			Joins("INNER JOIN posts ON posts.blog_id = blogs.id").
			Order("blogs.id").
			Order("posts.id"), out)
	},
}

var blogsHeaderLeft = variants[models.Blog]{
	StylePreload: func(tx *gorm.DB, out *[]models.Blog) *gorm.DB {
		return tx.Preload("Header").
			Order("blogs.id").
			Find(out)
	},
	StyleSQL: func(tx *gorm.DB, out *[]models.Blog) *gorm.DB {
		return scanBlogHeaders(tx.Raw(blogsHeaderLeftSQL), out)
	},
	StyleBuilder: func(tx *gorm.DB, out *[]models.Blog) *gorm.DB {
		return scanBlogHeaders(tx.Model(&models.Blog{}).
			Select(blogHeaderColumns[0], blogHeaderColumns[1:]...).
			Joins("LEFT JOIN blog_headers ON blog_headers.blog_id = blogs.id").
			Order("blogs.id"), out)
	},
}

var blogsHeaderInner = variants[models.Blog]{
	StylePreload: func(tx *gorm.DB, out *[]models.Blog) *gorm.DB {
		return tx.Preload("Header").
			Where("EXISTS (SELECT 1 FROM blog_headers WHERE blog_headers.blog_id = blogs.id)").
			Order("blogs.id").
			Find(out)
	},
	StyleSQL: func(tx *gorm.DB, out *[]models.Blog) *gorm.DB {
		return scanBlogHeaders(tx.Raw(blogsHeaderInnerSQL), out)
	},
	StyleBuilder: func(tx *gorm.DB, out *[]models.Blog) *gorm.DB {
		return scanBlogHeaders(tx.Model(&models.Blog{}).
			Select(blogHeaderColumns[0], blogHeaderColumns[1:]...).
			Joins("INNER JOIN blog_headers ON blog_headers.blog_id = blogs.id").
			Order("blogs.id"), out)
	},
}

func scanBlogPosts(tx *gorm.DB, out *[]models.Blog) *gorm.DB {
	var rows []blogPostRow
	if tx = tx.Find(&rows); tx.Error == nil {
		*out = groupBlogPosts(rows)
	}
	return tx
}

func scanBlogHeaders(tx *gorm.DB, out *[]models.Blog) *gorm.DB {
	var rows []blogHeaderRow
	if tx = tx.Find(&rows); tx.Error == nil {
		*out = groupBlogHeaders(rows)
	}
	return tx
}

// BlogsLeftJoinPosts returns every blog with its posts. Blogs without posts
// carry an empty slice.
func (c *Catalogue) BlogsLeftJoinPosts(ctx context.Context, style Style) ([]models.Blog, error) {
	return execute(ctx, c, "blogs-posts-left", blogsPostsLeft, style)
}

// BlogsInnerJoinPosts returns only blogs that have at least one post
func (c *Catalogue) BlogsInnerJoinPosts(ctx context.Context, style Style) ([]models.Blog, error) {
	return execute(ctx, c, "blogs-posts-inner", blogsPostsInner, style)
}

// BlogsLeftJoinHeader returns every blog, with a nil header where none exists
func (c *Catalogue) BlogsLeftJoinHeader(ctx context.Context, style Style) ([]models.Blog, error) {
	return execute(ctx, c, "blogs-header-left", blogsHeaderLeft, style)
}

func (c *Catalogue) BlogsInnerJoinHeader(ctx context.Context, style Style) ([]models.Blog, error) {
	return execute(ctx, c, "blogs-header-inner", blogsHeaderInner, style)
}
