//go:build v8

package runtime

import _ "github.com/wippyai/jseval/engine/v8engine"
