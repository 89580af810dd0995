package research

import (
	"encoding/base64"
	"path"

	"github.com/google/uuid"
)

const suffixLen = 8

// Uniquify inserts a random 8 character suffix between the stem and the
// extension of name: "notes.md" becomes "notes_Ab3-x9Qz.md".
func Uniquify(name string) string {
	id := uuid.New()
	suffix := base64.RawURLEncoding.EncodeToString(id[:])[:suffixLen]
	ext := path.Ext(name)
	stem := name[:len(name)-len(ext)]
	return stem + "_" + suffix + ext
}
