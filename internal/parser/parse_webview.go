package parser

import (
	"fmt"

	"github.com/seamarks/poisync/internal/jsonfield"
	"github.com/seamarks/poisync/pkg/core"
)

// ParseWebViewResult classifies a webview envelope by resultType and decodes
// its data with the marker or review decoder. Any decode failure classifies as
// WebViewError; an unrecognized resultType classifies as WebViewUnknown.
func (p *Parser) ParseWebViewResult(data []byte) (core.WebViewResult, error) {
	result := core.WebViewResult{
		Marker: core.NewMarkerRecordCollection(),
		Review: core.NewReviewRecordCollection(),
	}

	env, err := jsonfield.ParseObject(data)
	if err != nil {
		result.Type = core.WebViewError
		return result, fmt.Errorf("error parsing webview result: %w", err)
	}

	switch rt := resultType(env); rt {
	case "SUCCESS", "DELETE":
		mc, err := p.decodeMarkerWebView(env, rt)
		if err != nil {
			result.Type = core.WebViewError
			return result, err
		}
		result.Type = core.WebViewMarkerUpdate
		result.Marker = mc
	case "REVIEWSUCCESS", "REVIEWDELETE", "REVIEWFLAGGED":
		rc, err := p.decodeReviewWebView(env, rt)
		if err != nil {
			result.Type = core.WebViewError
			return result, err
		}
		result.Type = core.WebViewReviewUpdate
		result.Review = rc
	case "ERROR":
		result.Type = core.WebViewError
		return result, ErrResultError
	default:
		p.logger.Warn("Unknown webview result type", "resultType", rt)
		result.Type = core.WebViewUnknown
		return result, fmt.Errorf("%w %q", ErrUnknownResultType, rt)
	}
	return result, nil
}
