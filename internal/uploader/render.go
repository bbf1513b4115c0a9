package uploader

import (
	"fmt"
	"strings"
)

// Render formats r as markdown. Images are embedded, everything else is
// linked, and every entry carries its storage pathname.
func Render(r Report) string {
	if len(r.Results) == 0 {
		dir := r.Dir
		if dir == "" {
			dir = DefaultDir
		}
		return fmt.Sprintf("No files found in '%s' directory.\n", dir)
	}

	var b strings.Builder
	b.WriteString("# Uploaded Files\n\n")
	for _, res := range r.Results {
		if IsImage(res.MediaType) {
			fmt.Fprintf(&b, "![%s](%s)\n", res.Filename, res.URL)
		} else {
			fmt.Fprintf(&b, "[%s](%s)\n", res.Filename, res.URL)
		}
		fmt.Fprintf(&b, "  - **Pathname**: `%s`\n\n", res.Pathname)
	}
	return b.String()
}
