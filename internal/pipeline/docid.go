package pipeline

import "encoding/base64"

// maxDocIDLen caps a doc_id at 200 characters to stay within common
// filesystem filename limits. Two distinct URLs whose encodings share
// the same 200-character prefix collide; the collision is accepted
// rather than defended against (see SPEC_FULL.md).
const maxDocIDLen = 200

// DocID derives the stable identifier used to name downloaded PDFs and
// JSON records for a URL. Same url, always same doc_id, in every stage.
// Mirrors base64.urlsafe_b64encode(url)[:200] from the Python original,
// padding included.
func DocID(url string) string {
	encoded := base64.URLEncoding.EncodeToString([]byte(url))
	if len(encoded) > maxDocIDLen {
		return encoded[:maxDocIDLen]
	}
	return encoded
}
