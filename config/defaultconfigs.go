package config

var DefaultConfig Config
var DefaultTheme Theme

func init() {
	DefaultTheme = Theme{
		UseGridLines: true,
		Colors: ConfigColors{
			BoardColor:        180,
			BlackColor:        232,
			WhiteColor:        255,
			LineColor:         94,
			CursorColorBG:     4,
			LastPlayedColorBG: 2,
			GhostColor:        244,
			HoverColor:        6,
		},
		Symbols: ConfigSymbols{
			BlackStone: '●',
			WhiteStone: '●',
			GhostStone: '◉',
			HoverMark:  '✛',
		},
	}

	DefaultConfig = Config{
		Endpoints: Endpoints{
			BaseURL:   "http://localhost:8000",
			EngineURL: "http://localhost:3001",
		},
		LogLevel: "info",
		Theme:    DefaultTheme,
	}
}
