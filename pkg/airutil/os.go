package airutil

import (
	"os"
	"strings"

	"github.com/drone/envsubst"
)

// ExpandEnv replaces ${NAME} forms with their environment value.
func ExpandEnv(s string) string {
	val, _ := envsubst.EvalEnv(s)
	return val
}

// Environ returns the process environment as a map. The locale
// is forced to C so that tools called with it have a stable output.
func Environ() map[string]string {
	env := map[string]string{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = v
	}
	env["LANG"] = "C"
	env["LC_ALL"] = "C"
	return env
}
