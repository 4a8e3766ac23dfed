package catalog

// seedCourses is the default content served when no catalog file is
// configured. Mirrors the layout expected by the dashboard: each course
// carries its lessons and a short quiz.
func seedCourses() []Course {
	return []Course{
		{
			ID:          1,
			Title:       "Getting Started with Go",
			Description: "Syntax, tooling and the standard project layout.",
			Lessons: []Lesson{
				{ID: 1, Title: "Hello, module", Content: "Installing the toolchain, go.mod, and your first package."},
				{ID: 2, Title: "Types and functions", Content: "Structs, methods, multiple return values and zero values."},
			},
			Quiz: Quiz{Questions: []Question{
				{
					Prompt:  "Which file declares a module's import path?",
					Options: []string{"main.go", "go.mod", "Makefile", "go.sum"},
					Answer:  1,
				},
				{
					Prompt:  "What does a function returning (T, error) signal on failure?",
					Options: []string{"It panics", "It returns a non-nil error", "It returns nil, nil"},
					Answer:  1,
				},
			}},
		},
		{
			ID:          2,
			Title:       "Working with HTTP services",
			Description: "Handlers, middleware and JSON APIs.",
			Lessons: []Lesson{
				{ID: 1, Title: "Handlers and routers", Content: "http.Handler, mux routing and path parameters."},
				{ID: 2, Title: "JSON in and out", Content: "Decoding request bodies and encoding responses."},
			},
			Quiz: Quiz{Questions: []Question{
				{
					Prompt:  "Which interface must an HTTP handler satisfy?",
					Options: []string{"http.Handler", "io.Reader", "fmt.Stringer"},
					Answer:  0,
				},
				{
					Prompt:  "What status code signals a missing resource?",
					Options: []string{"200", "404", "500", "301"},
					Answer:  1,
				},
			}},
		},
	}
}
