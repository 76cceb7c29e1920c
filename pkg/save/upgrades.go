package save

import (
	"strconv"
	"strings"

	"github.com/entrhq/cookiebot/pkg/save/format"
)

var upgradeFormat format.Format[Upgrade] = format.NewRecord("upgrade", "", []format.FieldSpec[Upgrade]{
	format.Field("unlocked", format.Bool(), func(u *Upgrade) *bool { return &u.Unlocked }),
	format.Field("bought", format.Bool(), func(u *Upgrade) *bool { return &u.Bought }),
})

var upgradesFormat format.Format[[]Upgrade] = upgradeList{}

// upgradeList reads two flag characters per upgrade, in upgrade id order.
type upgradeList struct{}

func (upgradeList) Decode(value string) ([]Upgrade, error) {
	chars := format.Chars(value)
	out := make([]Upgrade, 0, len(chars)/2)
	for i := 0; i < len(chars); i += 2 {
		end := min(i+2, len(chars))
		u, err := upgradeFormat.Decode(strings.Join(chars[i:end], ""))
		if err != nil {
			return nil, &format.FieldError{Record: "upgrades", Field: strconv.Itoa(i / 2), Err: err}
		}
		out = append(out, u)
	}
	return out, nil
}

func (upgradeList) Encode(value []Upgrade) string {
	var b strings.Builder
	b.Grow(2 * len(value))
	for _, u := range value {
		b.WriteString(upgradeFormat.Encode(u))
	}
	return b.String()
}
