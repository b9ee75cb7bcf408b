package parser

import (
	"errors"
	"fmt"

	"github.com/seamarks/poisync/internal/jsonfield"
	"github.com/seamarks/poisync/pkg/core"
)

// ParseReview parses a single review object (vote responses).
// On error the returned collection holds whatever was decoded before the failure.
func (p *Parser) ParseReview(data []byte) (core.ReviewRecordCollection, error) {
	obj, err := jsonfield.ParseObject(data)
	if err != nil {
		return core.NewReviewRecordCollection(), fmt.Errorf("error parsing review: %w", err)
	}
	return p.decodeReview(obj)
}

// ParseReviewSync parses a review sync response, a JSON array of review objects.
// One bad element fails the whole batch and nothing is returned.
func (p *Parser) ParseReviewSync(data []byte) ([]core.ReviewRecordCollection, error) {
	elems, err := jsonfield.ParseArray(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing review sync: %w", err)
	}
	reviews, err := decodeList(p, "reviews", elems, AllOrNothing, p.decodeReview)
	if err != nil {
		return nil, fmt.Errorf("error parsing review sync: %w", err)
	}
	return reviews, nil
}

// ParseReviewWebView parses a review webview envelope.
// REVIEWSUCCESS carries a full review; REVIEWDELETE and REVIEWFLAGGED only its id.
func (p *Parser) ParseReviewWebView(data []byte) (core.ReviewRecordCollection, error) {
	env, err := jsonfield.ParseObject(data)
	if err != nil {
		return core.NewReviewRecordCollection(), fmt.Errorf("error parsing review webview: %w", err)
	}
	return p.decodeReviewWebView(env, resultType(env))
}

func (p *Parser) decodeReviewWebView(env jsonfield.Object, rt string) (core.ReviewRecordCollection, error) {
	switch rt {
	case "REVIEWSUCCESS":
		data, err := env.Object("data")
		if err != nil {
			return core.NewReviewRecordCollection(), fmt.Errorf("error parsing review webview: %w", err)
		}
		return p.decodeReview(data)
	case "REVIEWDELETE", "REVIEWFLAGGED":
		rc := core.NewReviewRecordCollection()
		data, err := env.Object("data")
		if err != nil {
			return rc, fmt.Errorf("error parsing review delete: %w", err)
		}
		id, err := data.Uint64("id")
		if err != nil {
			return rc, fmt.Errorf("error parsing review delete: %w", err)
		}
		rc.Review.ID = id
		rc.Review.Deleted = true
		return rc, nil
	case "ERROR":
		return core.NewReviewRecordCollection(), ErrResultError
	default:
		p.logger.Warn("Unknown review webview result type", "resultType", rt)
		return core.NewReviewRecordCollection(), fmt.Errorf("%w %q", ErrUnknownResultType, rt)
	}
}

// decodeReview stops early on a tombstone or a bad id or timestamp.
// An unreadable status does not stop decoding (StatusDeferred) but fails the result.
func (p *Parser) decodeReview(obj jsonfield.Object) (core.ReviewRecordCollection, error) {
	rc := core.NewReviewRecordCollection()
	r := &rc.Review

	ident, err := decodeIdentity(obj, StatusDeferred)
	r.ID, r.LastUpdated, r.Deleted = ident.id, ident.lastUpdated, ident.deleted
	if err != nil {
		return rc, fmt.Errorf("error parsing review: %w", errors.Join(err, ident.statusErr))
	}
	if r.Deleted {
		return rc, nil
	}

	errs := []error{ident.statusErr}

	r.MarkerID, err = obj.Uint64("poiId")
	errs = append(errs, err)
	r.CaptainName, err = obj.String("captainName")
	errs = append(errs, err)
	r.VisitDate, err = obj.String("dateVisited")
	errs = append(errs, err)
	r.Rating, err = obj.Int32("rating")
	errs = append(errs, err)
	r.Text, err = obj.String("review")
	errs = append(errs, err)
	r.Title, err = obj.String("title")
	errs = append(errs, err)
	r.Votes, err = obj.Int32("votes")
	errs = append(errs, err)

	if response, err := obj.String("response"); err == nil {
		r.Response = core.Some(response)
	}

	if obj.Has("photos") {
		photos, err := p.decodeReviewPhotos(obj)
		if err != nil {
			errs = append(errs, err)
		} else {
			rc.Photos = photos
		}
	}

	if err := errors.Join(errs...); err != nil {
		return rc, fmt.Errorf("error parsing review %d: %w", r.ID, err)
	}
	return rc, nil
}

// decodeReviewPhotos is all-or-nothing: one bad photo drops the whole list.
func (p *Parser) decodeReviewPhotos(obj jsonfield.Object) ([]core.ReviewPhoto, error) {
	elems, err := obj.Array("photos")
	if err != nil {
		return nil, err
	}
	return decodeList(p, "photos", elems, AllOrNothing, func(o jsonfield.Object) (core.ReviewPhoto, error) {
		ordinal, err := o.Int32("ordinal")
		if err != nil {
			return core.ReviewPhoto{}, err
		}
		url, err := o.String("downloadUrl")
		if err != nil {
			return core.ReviewPhoto{}, err
		}
		return core.ReviewPhoto{Ordinal: ordinal, DownloadURL: url}, nil
	})
}
