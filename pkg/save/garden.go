package save

import (
	"strconv"
	"strings"
	"time"

	"github.com/entrhq/cookiebot/pkg/save/format"
)

var gardenStateFormat format.Format[GardenState] = format.NewRecord("inner", ":", []format.FieldSpec[GardenState]{
	format.Field("time_of_next_tick", format.Timestamp(), func(g *GardenState) *time.Time { return &g.TimeOfNextTick }),
	format.Field("soil_type", format.Int(), func(g *GardenState) *int { return &g.SoilType }),
	format.Field("time_of_next_soil_change", format.Timestamp(), func(g *GardenState) *time.Time { return &g.TimeOfNextSoilChange }),
	format.Field("frozen", format.Bool(), func(g *GardenState) *bool { return &g.Frozen }),
	format.Field("harvests_this_ascension", format.Uint64(), func(g *GardenState) *uint64 { return &g.HarvestsThisAscension }),
	format.Field("total_harvests", format.Uint64(), func(g *GardenState) *uint64 { return &g.TotalHarvests }),
	format.Field("on_minigame", format.String(), func(g *GardenState) *string { return &g.OnMinigame }),
	format.Field("convert_times", format.String(), func(g *GardenState) *string { return &g.ConvertTimes }),
	format.Field("next_freeze", format.String(), func(g *GardenState) *string { return &g.NextFreeze }),
}, format.WithTrailingSeparator())

// gardenFormat splits the farm payload into its scalar section, the seed
// unlock flags and the plot grid.
var gardenFormat format.Format[Garden] = format.NewRecord("garden", " ", []format.FieldSpec[Garden]{
	format.Field("inner", gardenStateFormat, func(g *Garden) *GardenState { return &g.GardenState }),
	format.Field("unlocked_seeds", format.BoolStream(), func(g *Garden) *[]bool { return &g.UnlockedSeeds }),
	format.Field("farm_grid_data", farmGrid, func(g *Garden) *[]*FarmGridData { return &g.FarmGridData }),
})

var farmGrid format.Format[[]*FarmGridData] = farmGridFormat{}

// farmGridFormat reads "id:age:" pairs. A zero id is an empty plot and is
// always written back as "0:0:".
type farmGridFormat struct{}

func (farmGridFormat) Decode(value string) ([]*FarmGridData, error) {
	parts := strings.Split(value, ":")
	out := make([]*FarmGridData, 0, len(parts)/2)
	for i := 0; i+1 < len(parts); i += 2 {
		plot, err := decodePlot(parts[i], parts[i+1])
		if err != nil {
			return nil, &format.FieldError{Record: "farm_grid_data", Field: strconv.Itoa(i / 2), Err: err}
		}
		out = append(out, plot)
	}
	return out, nil
}

func decodePlot(id, age string) (*FarmGridData, error) {
	plantID, err := format.Int().Decode(id)
	if err != nil {
		return nil, err
	}
	plantAge, err := format.Uint64().Decode(age)
	if err != nil {
		return nil, err
	}
	if plantID == 0 {
		return nil, nil
	}
	return &FarmGridData{ID: plantID, Age: plantAge}, nil
}

func (farmGridFormat) Encode(value []*FarmGridData) string {
	var b strings.Builder
	for _, plot := range value {
		if plot == nil {
			b.WriteString("0:0:")
			continue
		}
		b.WriteString(format.Int().Encode(plot.ID))
		b.WriteByte(':')
		b.WriteString(format.Uint64().Encode(plot.Age))
		b.WriteByte(':')
	}
	return b.String()
}
