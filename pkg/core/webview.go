// pkg/core/webview.go
package core

// WebViewResultType classifies a webview envelope.
type WebViewResultType uint8

const (
	WebViewUnknown WebViewResultType = iota
	WebViewMarkerUpdate
	WebViewReviewUpdate
	WebViewError
)

func (r WebViewResultType) String() string {
	switch r {
	case WebViewMarkerUpdate:
		return "MarkerUpdate"
	case WebViewReviewUpdate:
		return "ReviewUpdate"
	case WebViewError:
		return "Error"
	default:
		return "Unknown"
	}
}

// WebViewResult is a classified envelope and the record it carried.
// Only the record matching Type is meaningful.
type WebViewResult struct {
	Type   WebViewResultType      `json:"type"`
	Marker MarkerRecordCollection `json:"marker"`
	Review ReviewRecordCollection `json:"review"`
}
