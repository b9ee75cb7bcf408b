package parser

import (
	"log/slog"
	"strings"

	"github.com/seamarks/poisync/internal/jsonfield"
	"github.com/seamarks/poisync/pkg/core"
)

// Service is the set of decoders the update worker depends on.
type Service interface {
	ParseMarker(data []byte) (core.MarkerRecordCollection, error)
	ParseMarkerSync(data []byte) ([]core.MarkerRecordCollection, error)
	ParseMarkerWebView(data []byte) (core.MarkerRecordCollection, error)

	ParseReview(data []byte) (core.ReviewRecordCollection, error)
	ParseReviewSync(data []byte) ([]core.ReviewRecordCollection, error)
	ParseReviewWebView(data []byte) (core.ReviewRecordCollection, error)

	ParseExportList(data []byte) ([]core.ExportFileDescriptor, error)
	ParseSyncStatus(data []byte) (map[core.TileCoordinate]core.TileUpdateOperation, error)
	ParseTileList(data []byte) (core.TileSet, error)

	ParseWebViewResult(data []byte) (core.WebViewResult, error)
}

var _ Service = (*Parser)(nil)

// Parser provides pure []byte -> core record conversion.
// It has zero external dependencies beyond a logger and holds no mutable state,
// so one Parser may be shared across goroutines.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new parser with only a logger dependency
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// resultType returns the upper-cased webview discriminator, or "" when absent.
func resultType(env jsonfield.Object) string {
	rt, err := env.String("resultType")
	if err != nil {
		return ""
	}
	return strings.ToUpper(rt)
}

// optional field readers; a failed read leaves the zero value

func optInt32(o jsonfield.Object, key string) int32 {
	v, _ := o.Int32(key)
	return v
}

func optFloat64(o jsonfield.Object, key string) float64 {
	v, _ := o.Float64(key)
	return v
}

func optString(o jsonfield.Object, key string) string {
	v, _ := o.String(key)
	return v
}

func optRaw(o jsonfield.Object, key string) string {
	v, _ := o.RawString(key)
	return v
}
