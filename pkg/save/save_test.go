package save

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/cookiebot/pkg/save/format"
)

func loadSample(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name+".txt"))
	require.NoError(t, err)
	return strings.TrimSpace(string(data))
}

func TestRoundTrip(t *testing.T) {
	for _, name := range []string{"midgame", "fresh"} {
		t.Run(name, func(t *testing.T) {
			raw := loadSample(t, name)
			require.NoError(t, CheckInverse(raw))

			s, err := Decode(raw)
			require.NoError(t, err)
			assert.Equal(t, raw, Encode(s))
		})
	}
}

func TestDecodeIsIdempotent(t *testing.T) {
	raw := loadSample(t, "midgame")

	first, err := Decode(raw)
	require.NoError(t, err)
	second, err := Decode(Encode(first))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDecodeMidgame(t *testing.T) {
	s, err := Decode(loadSample(t, "midgame"))
	require.NoError(t, err)

	assert.Equal(t, "2.052", s.GameVersion.Version)

	run := s.RunDetails
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), run.AscensionStart)
	assert.Equal(t, time.UnixMilli(1690000000000).UTC(), run.LegacyStart)
	assert.Equal(t, "Gopher's bakery", run.BakeryName)
	assert.Equal(t, "abcde", run.Seed)
	assert.Equal(t, Appearance{Hair: 1, HairColor: 2, SkinColor: 3, HeadShape: 0, Face: 4, Accessory1: 5, Accessory2: 6}, run.Appearance)

	prefs := s.Preferences
	assert.True(t, prefs.Particles)
	assert.True(t, prefs.Autosave)
	assert.False(t, prefs.Autoupdate)
	assert.True(t, prefs.DiscordPresence)
	assert.False(t, prefs.ScreenReader)

	misc := s.MiscellaneousGameData
	assert.Equal(t, 3.1622776601683794e+21, misc.CookiesBaked)
	assert.Equal(t, 1000000000000000100.0, misc.HandMadeCookies)
	assert.Equal(t, 17.2, misc.HeavenlyCookies)
	assert.Equal(t, uint64(45210), misc.CookieClicks)
	require.NotNil(t, misc.CurrentSeason)
	assert.Equal(t, "christmas", *misc.CurrentSeason)
	assert.Nil(t, misc.PermanentUpgrades[0])
	require.NotNil(t, misc.PermanentUpgrades[1])
	assert.Equal(t, uint64(66), *misc.PermanentUpgrades[1])
	require.NotNil(t, misc.SugarLumps)
	assert.Equal(t, uint64(102), *misc.SugarLumps)
	assert.Equal(t, []int{68, 69, 70, 129}, misc.Vault)
	assert.True(t, misc.CPSFortune)
	assert.False(t, misc.GoldenCookieFortune)
	assert.Equal(t, 3.1622776601683794e+21+9.87e+30, s.CookiesBakedAllTime())

	buildings := s.BuildingData
	assert.Equal(t, uint64(100), buildings.Cursors.AmountOwned)
	assert.Equal(t, 1.5e+22, buildings.Cursors.CookiesProduced)
	assert.Nil(t, buildings.Cursors.MinigameData)
	assert.True(t, buildings.Factories.Muted)
	assert.Equal(t, uint64(52), buildings.Factories.HighestAmount)
	require.NotNil(t, buildings.Banks.MinigameData)
	assert.Equal(t, "0:-1:0:0:0:0:0:0:0:0:0:1:1:1:0:0:0:0:1:1 0_0_0_0_0_0_0", *buildings.Banks.MinigameData)
	assert.Equal(t, 1.5e-7, buildings.Yous.CookiesProduced)

	garden := buildings.Farms.MinigameData
	require.NotNil(t, garden)
	assert.Equal(t, time.UnixMilli(1700000300000).UTC(), garden.TimeOfNextTick)
	assert.Equal(t, 1, garden.SoilType)
	assert.False(t, garden.Frozen)
	assert.Equal(t, uint64(5), garden.HarvestsThisAscension)
	assert.Equal(t, uint64(37), garden.TotalHarvests)
	assert.Equal(t, "1", garden.OnMinigame)
	assert.Len(t, garden.UnlockedSeeds, 34)
	assert.Equal(t, []bool{true, true, true, false, true}, garden.UnlockedSeeds[:5])
	require.Len(t, garden.FarmGridData, 36)
	assert.Equal(t, &FarmGridData{ID: 1, Age: 12}, garden.FarmGridData[0])
	assert.Nil(t, garden.FarmGridData[1])
	assert.Equal(t, &FarmGridData{ID: 6, Age: 21}, garden.FarmGridData[7])

	require.Len(t, s.Upgrades, 56)
	assert.Equal(t, Upgrade{Unlocked: true, Bought: true}, s.Upgrades[0])
	assert.Equal(t, Upgrade{Unlocked: true, Bought: false}, s.Upgrades[20])
	assert.Equal(t, Upgrade{}, s.Upgrades[25])

	assert.Len(t, s.Achievements, 101)

	require.Len(t, s.Buffs, 4)
	require.NotNil(t, s.Buffs[0].Argument1)
	assert.Equal(t, 2.5, *s.Buffs[0].Argument1)
	assert.Equal(t, GameBuff{EffectID: 3, MaximumTime: 100, TimeRemaining: 20}, s.Buffs[1])
	assert.Nil(t, s.Buffs[2].Argument1)
	require.NotNil(t, s.Buffs[2].Argument2)
	assert.Equal(t, 3, *s.Buffs[2].Argument2)
	require.NotNil(t, s.Buffs[3].Argument3)
	assert.Equal(t, "boost", *s.Buffs[3].Argument3)

	assert.Equal(t, "", s.ModData)
}

func TestDecodeFresh(t *testing.T) {
	s, err := Decode(loadSample(t, "fresh"))
	require.NoError(t, err)

	misc := s.MiscellaneousGameData
	assert.Nil(t, misc.CurrentSeason)
	assert.Nil(t, misc.SugarLumps)
	assert.Nil(t, misc.TotalSugarLumps)
	assert.Equal(t, [5]*uint64{}, misc.PermanentUpgrades)
	assert.Empty(t, misc.Vault)

	assert.Nil(t, s.BuildingData.Farms.MinigameData)
	assert.Empty(t, s.Upgrades)
	assert.Empty(t, s.Achievements)
	assert.Empty(t, s.Buffs)
	assert.Equal(t, 15.0, s.CookiesBakedAllTime())
}

func TestJSONRoundTrip(t *testing.T) {
	raw := loadSample(t, "midgame")
	s, err := Decode(raw)
	require.NoError(t, err)

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var restored Save
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Equal(t, raw, Encode(&restored))
}

func plainSample(t *testing.T, name string) string {
	t.Helper()
	text, err := DecodeEnvelope(loadSample(t, name))
	require.NoError(t, err)
	return text
}

// withFarm replaces the farm entry of the fresh sample.
func withFarm(t *testing.T, entry string) string {
	t.Helper()
	sections := strings.Split(plainSample(t, "fresh"), "|")
	buildings := strings.Split(sections[5], ";")
	buildings[2] = entry
	sections[5] = strings.Join(buildings, ";")
	return strings.Join(sections, "|")
}

func TestDecodeInsufficientData(t *testing.T) {
	text := plainSample(t, "midgame")

	t.Run("missing top-level section", func(t *testing.T) {
		_, err := DecodeText(strings.TrimSuffix(text, "|"))
		require.ErrorIs(t, err, format.ErrInsufficientData)
		assert.Equal(t, "save.mod_data: insufficient data", err.Error())
	})

	t.Run("every truncation fails", func(t *testing.T) {
		for i, c := range text {
			if c != '|' && c != ';' || strings.HasSuffix(text[:i], "|") {
				continue
			}
			_, err := DecodeText(text[:i])
			assert.ErrorIs(t, err, format.ErrInsufficientData, "truncated at %d", i)
		}
	})

	t.Run("short garden", func(t *testing.T) {
		_, err := DecodeText(withFarm(t, "1,1,0,0,1700000300000 111 1:1:,0,1"))
		require.ErrorIs(t, err, format.ErrInsufficientData)
		assert.Equal(t, "save.building_data.farms.minigame_data.inner.soil_type: insufficient data", err.Error())
	})

	t.Run("garden missing sections", func(t *testing.T) {
		_, err := DecodeText(withFarm(t, "1,1,0,0,1700000300000:1:1700000900000:0:5:37:1:0:0: 111,0,1"))
		require.ErrorIs(t, err, format.ErrInsufficientData)
		assert.Equal(t, "save.building_data.farms.minigame_data.farm_grid_data: insufficient data", err.Error())
	})
}

func TestDecodeRejectsInvalidFlags(t *testing.T) {
	text := plainSample(t, "fresh")
	text = strings.Replace(text, "|111111101011000100110000001|", "|211111101011000100110000001|", 1)

	_, err := DecodeText(text)
	require.ErrorIs(t, err, format.ErrInvalidBool)
	assert.Equal(t, "save.preferences.particles: cannot parse bool", err.Error())

	var fieldErr *format.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, []string{"save", "preferences", "particles"}, fieldErr.Path())
}

func TestGardenAbsentPlots(t *testing.T) {
	g, err := gardenFormat.Decode("1700000300000:0:1700000900000:1:0:0:0:0:0: 10 0:0:5:3:0:7:")
	require.NoError(t, err)

	assert.True(t, g.Frozen)
	assert.Equal(t, []bool{true, false}, g.UnlockedSeeds)
	require.Len(t, g.FarmGridData, 3)
	assert.Nil(t, g.FarmGridData[0])
	assert.Equal(t, &FarmGridData{ID: 5, Age: 3}, g.FarmGridData[1])
	assert.Nil(t, g.FarmGridData[2])

	// Absent plots are always written as 0:0.
	assert.Equal(t, "1700000300000:0:1700000900000:1:0:0:0:0:0: 10 0:0:5:3:0:0:", gardenFormat.Encode(g))
}

func TestGardenExtraSectionsIgnored(t *testing.T) {
	g, err := gardenFormat.Decode("0:0:0:0:0:0:0:0:0: 1 3:4: trailing")
	require.NoError(t, err)
	assert.Equal(t, []*FarmGridData{{ID: 3, Age: 4}}, g.FarmGridData)
}

func TestUpgradesOddLength(t *testing.T) {
	u, err := upgradesFormat.Decode("1011")
	require.NoError(t, err)
	assert.Equal(t, []Upgrade{{Unlocked: true}, {Unlocked: true, Bought: true}}, u)

	_, err = upgradesFormat.Decode("101")
	require.ErrorIs(t, err, format.ErrInsufficientData)
	assert.Equal(t, "upgrades.1.bought: insufficient data", err.Error())
}

func TestBuffs(t *testing.T) {
	b, err := buffsFormat.Decode("")
	require.NoError(t, err)
	assert.Empty(t, b)

	require.NoError(t, format.CheckInverse(buffsFormat, "1,2,3;4,5,6,,,x;"))

	_, err = buffsFormat.Decode("1,2,3;5,6000;")
	require.ErrorIs(t, err, format.ErrInsufficientData)
	assert.Equal(t, "buffs.1.time_remaining: insufficient data", err.Error())

	_, err = buffsFormat.Decode("1,2,3,abc;")
	var parseErr *format.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "abc", parseErr.Value)
}

func TestEnvelope(t *testing.T) {
	raw := loadSample(t, "midgame")
	text, err := DecodeEnvelope(raw)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "2.052||"))

	t.Run("without end marker", func(t *testing.T) {
		bare := base64.StdEncoding.EncodeToString([]byte(text))
		got, err := DecodeEnvelope(bare)
		require.NoError(t, err)
		assert.Equal(t, text, got)

		s, err := Decode(bare)
		require.NoError(t, err)
		assert.Equal(t, raw, Encode(s))
	})

	t.Run("unescaped marker", func(t *testing.T) {
		got, err := DecodeEnvelope(base64.StdEncoding.EncodeToString([]byte("a|b")) + "!END!")
		require.NoError(t, err)
		assert.Equal(t, "a|b", got)
	})

	t.Run("encode", func(t *testing.T) {
		assert.Equal(t, "YXxi%21END%21", EncodeEnvelope("a|b"))
		assert.Equal(t, "Pz8%2F%21END%21", EncodeEnvelope("???"))
	})

	t.Run("errors", func(t *testing.T) {
		_, err := DecodeEnvelope("%zz")
		assert.ErrorIs(t, err, ErrPercentEncoding)

		_, err = DecodeEnvelope("not base64!END!")
		assert.ErrorIs(t, err, ErrBase64)

		_, err = DecodeEnvelope(base64.StdEncoding.EncodeToString([]byte{0xff, 0xfe}))
		assert.ErrorIs(t, err, ErrInvalidUTF8)

		_, err = Decode("%zz")
		assert.ErrorIs(t, err, ErrPercentEncoding)
	})
}

func TestCheckInverseReportsField(t *testing.T) {
	text := plainSample(t, "fresh")
	text = strings.Replace(text, "|0;15;15;", "|0;15.0;15;", 1)

	err := CheckInverse(EncodeEnvelope(text))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save.miscellaneous_game_data.cookies_baked")

	var mismatch *format.MismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "15.0", mismatch.Expected)
}

func TestCheckInverseEnvelope(t *testing.T) {
	// An unescaped end marker decodes fine but is re-encoded escaped.
	raw := strings.Replace(loadSample(t, "fresh"), "%21END%21", "!END!", 1)
	_, err := Decode(raw)
	require.NoError(t, err)

	err = CheckInverse(raw)
	var mismatch *format.MismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Contains(t, err.Error(), "envelope")
}
