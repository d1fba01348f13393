package display

import (
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Select runs a gjson path query against the tree's JSON form, used by
// `ql ast --json --select <path>` to let editor tooling pull a single
// subtree without re-walking the AST.
func Select(treeJSON, path string) (string, bool) {
	res := gjson.Get(treeJSON, path)
	if !res.Exists() {
		return "", false
	}
	return res.Raw, true
}

// Flatten rebuilds a minimal {id, name} summary array from a tree's full
// JSON form incrementally via sjson, avoiding a second encoding/json
// marshal pass of the (possibly large) partial trees `Select` returns.
func Flatten(treeJSON string) (string, error) {
	out := "[]"
	idx := 0
	var err error

	visit := func(node gjson.Result) bool {
		prefix := strconv.Itoa(idx)
		out, err = sjson.Set(out, prefix+".id", node.Get("id").Int())
		if err != nil {
			return false
		}
		out, err = sjson.Set(out, prefix+".name", node.Get("name").String())
		if err != nil {
			return false
		}
		idx++
		return true
	}

	root := gjson.Parse(treeJSON)
	walkGJSON(root, visit)
	return out, err
}

func walkGJSON(node gjson.Result, visit func(gjson.Result) bool) bool {
	if !visit(node) {
		return false
	}
	children := node.Get("children")
	if !children.IsArray() {
		return true
	}
	ok := true
	children.ForEach(func(_, child gjson.Result) bool {
		ok = walkGJSON(child, visit)
		return ok
	})
	return ok
}
