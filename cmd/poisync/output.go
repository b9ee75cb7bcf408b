package main

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"

	"github.com/seamarks/poisync/pkg/core"
)

type tileStatus struct {
	Tile    core.TileCoordinate `json:"tile"`
	Markers string              `json:"markers"`
	Reviews string              `json:"reviews"`
}

// printable converts results without a natural JSON form.
func printable(v any) any {
	switch r := v.(type) {
	case core.WebViewResultType:
		return map[string]string{"resultType": r.String()}
	case int:
		return map[string]int{"applied": r}
	case core.TileSet:
		return r.Sorted()
	case map[core.TileCoordinate]core.TileUpdateOperation:
		out := make([]tileStatus, 0, len(r))
		set := make(core.TileSet, len(r))
		for t := range r {
			set.Add(t)
		}
		for _, t := range set.Sorted() {
			op := r[t]
			out = append(out, tileStatus{Tile: t, Markers: op.Markers.String(), Reviews: op.Reviews.String()})
		}
		return out
	default:
		return v
	}
}

func writeResult(w io.Writer, v any) error {
	data, err := json.MarshalIndent(printable(v), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
