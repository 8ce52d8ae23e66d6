package prompt

import "errors"

// ErrAborted is returned when the user interrupts an interactive session.
var ErrAborted = errors.New("prompt: aborted by user")
