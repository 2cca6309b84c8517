package stylesheets

import (
	"path"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUploadPathScopedUnderCompany(t *testing.T) {
	p := UploadPath("invoicer", 7, "My Fancy Stylesheet.css")

	require.True(t, strings.HasPrefix(p, "invoicer/stylesheets/7/"), p)
	require.Equal(t, ".css", path.Ext(p))
	require.Regexp(t, regexp.MustCompile(`my-fancy-stylesheet-[0-9a-f]{8}\.css$`), p)
}

func TestUploadPathCollisionResistant(t *testing.T) {
	a := UploadPath("invoicer", 7, "print.css")
	b := UploadPath("invoicer", 7, "print.css")
	require.NotEqual(t, a, b)
}

func TestUploadPathTrimsDirSlashes(t *testing.T) {
	p := UploadPath("/uploads/", 2, "sheet.css")
	require.True(t, strings.HasPrefix(p, "uploads/stylesheets/2/"), p)
}

func TestUploadPathUnsluggableName(t *testing.T) {
	p := UploadPath("invoicer", 3, "###.css")
	require.Contains(t, p, "/stylesheet-")
}

func TestSlugify(t *testing.T) {
	require.Equal(t, "hello-world", slugify("Hello, World!"))
	require.Equal(t, "a-b-c", slugify("a  b  c"))
	require.Equal(t, "", slugify("!!!"))
}
