package components

import (
	"encoding/json"
	"slices"

	"github.com/mcoot/setgame/internal/model"
)

func sessionPath(id model.SessionID, action string) string {
	return "/sessions/" + string(id) + "/" + action
}

// hxVals encodes a single form value for the hx-vals attribute
func hxVals(key, value string) string {
	b, _ := json.Marshal(map[string]string{key: value})
	return string(b)
}

func (d BoardData) selected(id model.CardID) bool {
	return slices.Contains(d.Hand, id)
}

func (d BoardData) hinted(id model.CardID) bool {
	return slices.Contains(d.Hint, id)
}
