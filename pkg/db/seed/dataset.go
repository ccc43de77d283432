package seed

// Dataset describes the rows inserted by a seed run. Tags on posts refer to
// entries of Tags by name.
type Dataset struct {
	Tags  []string
	Blogs []BlogData
	// Posts that do not belong to any blog
	Posts []PostData
}

type BlogData struct {
	Name   string
	Header string // empty means no header
	Posts  []PostData
}

type PostData struct {
	Title    string
	Content  string
	Tags     []string
	Comments []string
}

// Default returns the canned sample data: a tech blog with two commented and
// tagged posts, a cook blog without posts, a blog without header, a post with
// every tag but no blog and a post with neither blog nor tags.
func Default() Dataset {
	return Dataset{
		Tags: []string{"C#", "dotnet", "EF Core"},
		Blogs: []BlogData{
			{
				Name:   "Tech Blog",
				Header: "Tech Blog Header",
				Posts: []PostData{
					{
						Title:    "Introduction to C#",
						Content:  "Content about C# basics",
						Tags:     []string{"C#"},
						Comments: []string{"Great post!", "Very helpful, thanks!"},
					},
					{
						Title:    "Advanced C#",
						Content:  "Content about advanced C# topics",
						Tags:     []string{"C#", "dotnet"},
						Comments: []string{"I need more examples", "Can you cover async/await?"},
					},
				},
			},
			{
				Name:   "Cook blog",
				Header: "Cook Blog Header",
			},
			{
				Name: "No Header Blog",
			},
		},
		Posts: []PostData{
			{
				Title:   "Entity Framework Core",
				Content: "Content about EF Core",
				Tags:    []string{"C#", "dotnet", "EF Core"},
			},
			{
				Title:   "Cooking",
				Content: "Content about Cooking",
			},
		},
	}
}
