package profiler_test

import (
	"testing"

	"github.com/luthersystems/lsp/lisp"
	"github.com/luthersystems/lsp/lsputil"
	"github.com/stretchr/testify/require"
)

const testLisp = `
(defn add-it (x y)
  "Adds two numbers. @trace{ Add It }"
  (+ x y))

(defn add-it-again (x y)
  "@trace{ Add It Again }"
  (add-it x y))

(defn recurse-it (x)
  "Counts down to 4 and then adds. @trace"
  (if (< x 4)
    (recurse-it (- x 1))
    (add-it x 3)))

(defn print-it (x)
  (println x))

(print-it "Hello")
(print-it (add-it-again (add-it 3 (recurse-it 5)) 8))
`

// newEnv returns an environment without the prelude so only functions
// defined by the test are traced.  Profilers must be enabled before the
// environment is used.
func newEnv(t *testing.T, enable func(rt *lisp.Runtime)) *lisp.LEnv {
	env, err := lsputil.NewBareEnv(lisp.WithStdout(testWriter{t}))
	require.NoError(t, err)
	enable(env.Runtime)
	rc := env.LoadString("defn.lsp", "(defmacro defn (name params & body) `(def ~name (fn ~name ~params ~@body)))")
	require.NoError(t, lisp.GoError(rc))
	return env
}

type testWriter struct {
	t *testing.T
}

func (w testWriter) Write(b []byte) (int, error) {
	w.t.Log(string(b))
	return len(b), nil
}
