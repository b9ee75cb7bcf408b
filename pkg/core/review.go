// pkg/core/review.go
package core

// Review is a user review attached to a marker.
// When Deleted is set only ID carries meaning.
type Review struct {
	ID          uint64           `json:"id"`
	MarkerID    uint64           `json:"markerId"`
	Rating      int32            `json:"rating"`
	Title       string           `json:"title"`
	Text        string           `json:"text"`
	Response    Optional[string] `json:"response"`
	VisitDate   string           `json:"visitDate"`
	CaptainName string           `json:"captainName"`
	Votes       int32            `json:"votes"`
	LastUpdated int64            `json:"lastUpdated"` // unix seconds
	Deleted     bool             `json:"deleted"`
}

type ReviewPhoto struct {
	Ordinal     int32  `json:"ordinal"`
	DownloadURL string `json:"downloadUrl"`
}

// ReviewRecordCollection is a decoded review with its photos.
type ReviewRecordCollection struct {
	Review Review        `json:"review"`
	Photos []ReviewPhoto `json:"photos"`
}

// NewReviewRecordCollection returns a collection with an initialized photo list.
func NewReviewRecordCollection() ReviewRecordCollection {
	return ReviewRecordCollection{Photos: []ReviewPhoto{}}
}
