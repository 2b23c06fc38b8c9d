package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/wippyai/jseval/value"
)

type printer struct {
	w    io.Writer
	json bool
}

func newPrinter(w io.Writer, asJSON bool) *printer {
	return &printer{w: w, json: asJSON}
}

type failureJSON struct {
	Kind      string `json:"kind"`
	Exception string `json:"exception"`
	Stack     string `json:"stack_trace,omitempty"`
}

// outcome prints o and reports whether it was a success.
func (p *printer) outcome(o value.Outcome) bool {
	switch x := o.(type) {
	case value.Ok:
		if p.json {
			p.encode(x.Value)
		} else {
			fmt.Fprintln(p.w, x.Value.String())
		}
		return true
	case value.Failure:
		if p.json {
			p.encode(map[string]failureJSON{"error": {
				Kind:      x.FailureKind().String(),
				Exception: x.Exception(),
				Stack:     x.Stack(),
			}})
		} else {
			fmt.Fprintf(p.w, "%s error: %s\n", x.FailureKind(), x.Exception())
			if x.Stack() != "" {
				fmt.Fprintln(p.w, x.Stack())
			}
		}
	}
	return false
}

func (p *printer) heap(h value.HeapSnapshot) {
	if p.json {
		p.encode(h)
		return
	}
	fmt.Fprintf(p.w, "used %d / total %d / limit %d bytes, %d contexts (%d detached)\n",
		h.UsedHeapSize, h.TotalHeapSize, h.HeapSizeLimit,
		h.NumberOfNativeContexts, h.NumberOfDetachedContexts)
}

func (p *printer) encode(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(p.w, "{\"encode_error\":%q}\n", err.Error())
		return
	}
	fmt.Fprintln(p.w, string(data))
}
