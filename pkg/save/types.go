package save

import "time"

// Save is a fully decoded game save. A Save is produced by Decode and
// consumed by Encode; callers should treat it as a value.
type Save struct {
	GameVersion           GameVersion           `json:"game_version"`
	RunDetails            RunDetails            `json:"run_details"`
	Preferences           Preferences           `json:"preferences"`
	MiscellaneousGameData MiscellaneousGameData `json:"miscellaneous_game_data"`
	BuildingData          BuildingData          `json:"building_data"`
	Upgrades              []Upgrade             `json:"upgrades"`
	Achievements          []bool                `json:"achievements"`
	Buffs                 []GameBuff            `json:"buffs"`
	ModData               string                `json:"mod_data"`
}

// CookiesBakedAllTime is the score used to rank saves: cookies baked in the
// current ascension plus everything forfeited by earlier ascensions.
func (s *Save) CookiesBakedAllTime() float64 {
	return s.MiscellaneousGameData.CookiesBaked + s.MiscellaneousGameData.CookiesForfeitedByAscending
}

type GameVersion struct {
	Version string `json:"version"`
}

type RunDetails struct {
	AscensionStart time.Time  `json:"ascension_start"`
	LegacyStart    time.Time  `json:"legacy_start"`
	LastOpened     time.Time  `json:"last_opened"`
	BakeryName     string     `json:"bakery_name"`
	Seed           string     `json:"seed"`
	Appearance     Appearance `json:"appearance"`
}

// Appearance holds the indexes picked for the "You" building's portrait.
type Appearance struct {
	Hair       int `json:"hair"`
	HairColor  int `json:"hair_color"`
	SkinColor  int `json:"skin_color"`
	HeadShape  int `json:"head_shape"`
	Face       int `json:"face"`
	Accessory1 int `json:"accessory1"`
	Accessory2 int `json:"accessory2"`
}

type Preferences struct {
	Particles         bool `json:"particles"`
	Numbers           bool `json:"numbers"`
	Autosave          bool `json:"autosave"`
	Autoupdate        bool `json:"autoupdate"`
	Milk              bool `json:"milk"`
	Fancy             bool `json:"fancy"`
	Warn              bool `json:"warn"`
	Cursors           bool `json:"cursors"`
	Focus             bool `json:"focus"`
	Format            bool `json:"format"`
	Notifs            bool `json:"notifs"`
	Wobbly            bool `json:"wobbly"`
	Monospace         bool `json:"monospace"`
	Filters           bool `json:"filters"`
	CookieSound       bool `json:"cookie_sound"`
	Crates            bool `json:"crates"`
	ShowBackupWarning bool `json:"show_backup_warning"`
	ExtraButtons      bool `json:"extra_buttons"`
	AskLumps          bool `json:"ask_lumps"`
	CustomGrandmas    bool `json:"custom_grandmas"`
	Timeout           bool `json:"timeout"`
	CloudSave         bool `json:"cloud_save"`
	BgMusic           bool `json:"bg_music"`
	NotScary          bool `json:"not_scary"`
	Fullscreen        bool `json:"fullscreen"`
	ScreenReader      bool `json:"screen_reader"`
	DiscordPresence   bool `json:"discord_presence"`
}

type MiscellaneousGameData struct {
	CookiesInBank               float64    `json:"cookies_in_bank"`
	CookiesBaked                float64    `json:"cookies_baked"`
	CookieClicks                uint64     `json:"cookie_clicks"`
	TotalGoldenCookieClicks     uint64     `json:"total_golden_cookie_clicks"`
	HandMadeCookies             float64    `json:"hand_made_cookies"`
	TotalGoldenCookiesMissed    uint64     `json:"total_golden_cookies_missed"`
	BackgroundType              int        `json:"background_type"`
	MilkType                    int        `json:"milk_type"`
	CookiesForfeitedByAscending float64    `json:"cookies_forfeited_by_ascending"`
	GrandmapocalypseStage       int        `json:"grandmapocalypse_stage"`
	ElderPledgesMade            uint64     `json:"elder_pledges_made"`
	TimeLeftInElderPledge       uint64     `json:"time_left_in_elder_pledge"`
	CurrentlyResearching        int        `json:"currently_researching"`
	TimeLeftInResearch          uint64     `json:"time_left_in_research"`
	Ascensions                  uint64     `json:"ascensions"`
	GoldenCookieClicksThisRun   uint64     `json:"golden_cookie_clicks_this_run"`
	CookiesSuckedByWrinklers    float64    `json:"cookies_sucked_by_wrinklers"`
	WrinklersPopped             uint64     `json:"wrinklers_popped"`
	SantaLevel                  int        `json:"santa_level"`
	ReindeerClicked             uint64     `json:"reindeer_clicked"`
	TimeLeftInSeason            uint64     `json:"time_left_in_season"`
	SeasonSwitcherUses          uint64     `json:"season_switcher_uses"`
	CurrentSeason               *string    `json:"current_season"`
	CookiesInWrinklers          float64    `json:"cookies_in_wrinklers"`
	NumberOfWrinklers           uint64     `json:"number_of_wrinklers"`
	PrestigeLevel               float64    `json:"prestige_level"`
	HeavenlyChips               float64    `json:"heavenly_chips"`
	HeavenlyChipsSpent          float64    `json:"heavenly_chips_spent"`
	HeavenlyCookies             float64    `json:"heavenly_cookies"`
	AscensionMode               int        `json:"ascension_mode"`
	PermanentUpgrades           [5]*uint64 `json:"permanent_upgrades"`
	DragonLevel                 int        `json:"dragon_level"`
	DragonAura                  int        `json:"dragon_aura"`
	DragonAura2                 int        `json:"dragon_aura2"`
	ChimeType                   int        `json:"chime_type"`
	Volume                      int        `json:"volume"`
	ShinyWrinklers              uint64     `json:"shiny_wrinklers"`
	CookiesInShinyWrinklers     float64    `json:"cookies_in_shiny_wrinklers"`
	SugarLumps                  *uint64    `json:"sugar_lumps"`
	TotalSugarLumps             *uint64    `json:"total_sugar_lumps"`
	LumpStart                   time.Time  `json:"lump_start"`
	LastLumpRefill              time.Time  `json:"last_lump_refill"`
	CurrentLumpType             int        `json:"current_lump_type"`
	Vault                       []int      `json:"vault"`
	Heralds                     uint64     `json:"heralds"`
	GoldenCookieFortune         bool       `json:"golden_cookie_fortune"`
	CPSFortune                  bool       `json:"cps_fortune"`
	HighestRawCPS               float64    `json:"highest_raw_cps"`
	MusicVolume                 int        `json:"music_volume"`
	CookiesSent                 float64    `json:"cookies_sent"`
	CookiesReceived             float64    `json:"cookies_received"`
}

// BuildingEntry is the saved state of one building type. M is the
// building's minigame payload.
type BuildingEntry[M any] struct {
	AmountOwned     uint64  `json:"amount_owned"`
	AmountBought    uint64  `json:"amount_bought"`
	CookiesProduced float64 `json:"cookies_produced"`
	Level           int     `json:"level"`
	MinigameData    M       `json:"minigame_data"`
	Muted           bool    `json:"muted"`
	HighestAmount   uint64  `json:"highest_amount"`
}

// Building is a building type whose minigame payload, if any, is kept as
// opaque text.
type Building = BuildingEntry[*string]

type BuildingData struct {
	Cursors              Building               `json:"cursors"`
	Grandmas             Building               `json:"grandmas"`
	Farms                BuildingEntry[*Garden] `json:"farms"`
	Mines                Building               `json:"mines"`
	Factories            Building               `json:"factories"`
	Banks                Building               `json:"banks"`
	Temples              Building               `json:"temples"`
	WizardTowers         Building               `json:"wizard_towers"`
	Shipments            Building               `json:"shipments"`
	AlchemyLabs          Building               `json:"alchemy_labs"`
	Portals              Building               `json:"portals"`
	TimeMachines         Building               `json:"time_machines"`
	AntimatterCondensers Building               `json:"antimatter_condensers"`
	Prisms               Building               `json:"prisms"`
	Chancemakers         Building               `json:"chancemakers"`
	FractalEngines       Building               `json:"fractal_engines"`
	JavascriptConsoles   Building               `json:"javascript_consoles"`
	Idleverses           Building               `json:"idleverses"`
	CortexBakers         Building               `json:"cortex_bakers"`
	Yous                 Building               `json:"yous"`
}

// Garden is the farm minigame payload.
type Garden struct {
	GardenState
	UnlockedSeeds []bool          `json:"unlocked_seeds"`
	FarmGridData  []*FarmGridData `json:"farm_grid_data"`
}

// GardenState is the scalar section of the garden payload.
type GardenState struct {
	TimeOfNextTick        time.Time `json:"time_of_next_tick"`
	SoilType              int       `json:"soil_type"`
	TimeOfNextSoilChange  time.Time `json:"time_of_next_soil_change"`
	Frozen                bool      `json:"frozen"`
	HarvestsThisAscension uint64    `json:"harvests_this_ascension"`
	TotalHarvests         uint64    `json:"total_harvests"`
	OnMinigame            string    `json:"on_minigame"`
	ConvertTimes          string    `json:"convert_times"`
	NextFreeze            string    `json:"next_freeze"`
}

// FarmGridData is a planted garden tile. Empty tiles are nil.
type FarmGridData struct {
	ID  int    `json:"id"`
	Age uint64 `json:"age"`
}

type Upgrade struct {
	Unlocked bool `json:"unlocked"`
	Bought   bool `json:"bought"`
}

// GameBuff is an active buff. The meaning of the optional arguments
// depends on the effect.
type GameBuff struct {
	EffectID      int      `json:"effect_id"`
	MaximumTime   uint64   `json:"maximum_time"`
	TimeRemaining uint64   `json:"time_remaining"`
	Argument1     *float64 `json:"argument1,omitempty"`
	Argument2     *int     `json:"argument2,omitempty"`
	Argument3     *string  `json:"argument3,omitempty"`
}
