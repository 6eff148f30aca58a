package pipeline

// UnknownDate is the sentinel publication_date value when no date could
// be found in a document's text.
const UnknownDate = "[UNKNOWN]"

// ScannedPDFText is the sentinel text value for PDFs whose text-coverage
// ratio falls below the born-digital threshold (§4.4).
const ScannedPDFText = "scanned PDF"

// Location names one site a Document was discovered under.
type Location struct {
	Name string `json:"name"`
	UID  string `json:"uid"`
	URL  string `json:"url"`
}

// Document is the unit flowing from the downloader onward, and the
// record ultimately persisted to <saved_path>/<doc_id>.json. Field
// names/tags are exactly the set in §3 / §8's key-set invariant.
type Document struct {
	DocID           string     `json:"doc_id"`
	Locations       []Location `json:"locations"`
	OriginURL       string     `json:"origin_url"`
	Text            string     `json:"text"`
	PublicationDate string     `json:"publication_date"`
}

// NewDocument builds the seed Document a successful download produces,
// per §4.3's "Batch outcome" transform.
func NewDocument(link Link) Document {
	return Document{
		DocID:     link.DocID,
		OriginURL: link.URL,
		Locations: []Location{{
			Name: link.Name,
			UID:  link.Code,
			URL:  link.Website,
		}},
	}
}
