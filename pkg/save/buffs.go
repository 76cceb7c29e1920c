package save

import (
	"strconv"
	"strings"

	"github.com/entrhq/cookiebot/pkg/save/format"
)

var (
	buffArgument1 = format.NoneAsEmpty(format.Float64())
	buffArgument2 = format.NoneAsEmpty(format.Int())
	buffArgument3 = format.NoneAsEmpty(format.String())
)

var buffsFormat format.Format[[]GameBuff] = buffList{}

// buffList reads ';'-terminated buffs. Each buff is
// "effect,max,remaining" followed by up to three optional arguments.
type buffList struct{}

func (buffList) Decode(value string) ([]GameBuff, error) {
	if value == "" {
		return []GameBuff{}, nil
	}
	entries := strings.Split(strings.TrimSuffix(value, ";"), ";")
	out := make([]GameBuff, 0, len(entries))
	for i, entry := range entries {
		buff, err := decodeBuff(entry)
		if err != nil {
			return nil, &format.FieldError{Record: "buffs", Field: strconv.Itoa(i), Err: err}
		}
		out = append(out, buff)
	}
	return out, nil
}

func decodeBuff(entry string) (GameBuff, error) {
	var buff GameBuff
	parts := strings.Split(entry, ",")
	if len(parts) < 3 {
		field := [...]string{"effect_id", "maximum_time", "time_remaining"}[len(parts)]
		return GameBuff{}, &format.FieldError{Record: "buff", Field: field, Err: format.ErrInsufficientData}
	}

	var err error
	if buff.EffectID, err = format.Int().Decode(parts[0]); err != nil {
		return GameBuff{}, &format.FieldError{Record: "buff", Field: "effect_id", Err: err}
	}
	if buff.MaximumTime, err = format.Uint64().Decode(parts[1]); err != nil {
		return GameBuff{}, &format.FieldError{Record: "buff", Field: "maximum_time", Err: err}
	}
	if buff.TimeRemaining, err = format.Uint64().Decode(parts[2]); err != nil {
		return GameBuff{}, &format.FieldError{Record: "buff", Field: "time_remaining", Err: err}
	}
	if len(parts) > 3 {
		if buff.Argument1, err = buffArgument1.Decode(parts[3]); err != nil {
			return GameBuff{}, &format.FieldError{Record: "buff", Field: "argument1", Err: err}
		}
	}
	if len(parts) > 4 {
		if buff.Argument2, err = buffArgument2.Decode(parts[4]); err != nil {
			return GameBuff{}, &format.FieldError{Record: "buff", Field: "argument2", Err: err}
		}
	}
	if len(parts) > 5 {
		if buff.Argument3, err = buffArgument3.Decode(parts[5]); err != nil {
			return GameBuff{}, &format.FieldError{Record: "buff", Field: "argument3", Err: err}
		}
	}
	return buff, nil
}

func (buffList) Encode(value []GameBuff) string {
	var b strings.Builder
	for _, buff := range value {
		b.WriteString(format.Int().Encode(buff.EffectID))
		b.WriteByte(',')
		b.WriteString(format.Uint64().Encode(buff.MaximumTime))
		b.WriteByte(',')
		b.WriteString(format.Uint64().Encode(buff.TimeRemaining))

		// Arguments are written up to the last one present.
		switch {
		case buff.Argument3 != nil:
			b.WriteString("," + buffArgument1.Encode(buff.Argument1))
			b.WriteString("," + buffArgument2.Encode(buff.Argument2))
			b.WriteString("," + buffArgument3.Encode(buff.Argument3))
		case buff.Argument2 != nil:
			b.WriteString("," + buffArgument1.Encode(buff.Argument1))
			b.WriteString("," + buffArgument2.Encode(buff.Argument2))
		case buff.Argument1 != nil:
			b.WriteString("," + buffArgument1.Encode(buff.Argument1))
		}
		b.WriteByte(';')
	}
	return b.String()
}
