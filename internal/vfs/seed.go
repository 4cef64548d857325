package vfs

import (
	"context"
	"fmt"
	"path"
	"sort"
)

// SeedFiles returns the starter project placed in home
func SeedFiles(home string) map[string]string {
	return map[string]string{
		path.Join(home, "index.html"): `<!DOCTYPE html>
<html>
  <head>
    <title>My first repo</title>
    <link rel="stylesheet" href="style.css">
  </head>
  <body>
    <h1>Hello, git!</h1>
    <script src="app.js"></script>
  </body>
</html>
`,
		path.Join(home, "style.css"): `body {
  font-family: sans-serif;
  margin: 2rem;
}
`,
		path.Join(home, "app.js"): `console.log("hello from the sandbox");
`,
		path.Join(home, "README.md"): `# Sandbox

Try these:

    git init
    git add .
    git commit -m "first commit"
    git log
`,
	}
}

// Seed creates home and writes the starter files. Existing files are left
// alone.
func Seed(ctx context.Context, fsys FS, home string) error {
	if err := fsys.Mkdir(ctx, home, true); err != nil {
		return fmt.Errorf("failed to create home: %w", err)
	}

	files := SeedFiles(home)
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, err := fsys.Stat(ctx, name); err == nil {
			continue
		}
		if err := fsys.Write(ctx, name, []byte(files[name])); err != nil {
			return fmt.Errorf("failed to seed %s: %w", name, err)
		}
	}
	return nil
}
