package stylesheets

import (
	"path"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

func slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// UploadPath resolves the storage path for an uploaded stylesheet asset,
// scoped under the owning company. The slugged original name keeps paths
// readable and a short random suffix keeps them collision resistant:
// <uploadDir>/stylesheets/<companyID>/<slug>-<suffix><ext>.
func UploadPath(uploadDir string, companyID int64, filename string) string {
	ext := path.Ext(filename)
	base := strings.TrimSuffix(path.Base(filename), ext)
	suffix := uuid.NewString()[:8]
	name := slugify(base)
	if name == "" {
		name = "stylesheet"
	}
	return path.Join(
		strings.Trim(uploadDir, "/"),
		"stylesheets",
		strconv.FormatInt(companyID, 10),
		name+"-"+suffix+strings.ToLower(ext),
	)
}
