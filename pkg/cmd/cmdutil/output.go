package cmdutil

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/mpapenbr/bikechallenge/pkg/config"
)

// JSONOutput reports whether results are requested as json.
func JSONOutput() bool {
	return config.Output == "json"
}

// WriteJSON writes v as indented json. A non-empty selector is a JSONPath
// expression applied to the document first.
func WriteJSON(w io.Writer, v any, selector string) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	doc, err := oj.Parse(data)
	if err != nil {
		return err
	}
	if selector != "" {
		path, err := jp.ParseString(selector)
		if err != nil {
			return fmt.Errorf("invalid selector %q: %w", selector, err)
		}
		res := path.Get(doc)
		if len(res) == 1 {
			doc = res[0]
		} else {
			doc = res
		}
	}
	_, err = fmt.Fprintln(w, oj.JSON(doc, &oj.Options{Indent: 2, Sort: true}))
	return err
}

// WriteJSONLine writes v as compact json followed by a newline.
func WriteJSONLine(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	doc, err := oj.Parse(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, oj.JSON(doc))
	return err
}
