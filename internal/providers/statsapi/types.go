package statsapi

import "github.com/preston-bernstein/condensed-game-notifier/internal/providers"

type scheduleResponse struct {
	Dates []scheduleDate `json:"dates"`
}

type scheduleDate struct {
	Date  string         `json:"date"`
	Games []scheduleGame `json:"games"`
}

type scheduleGame struct {
	GamePk   int64         `json:"gamePk"`
	GameDate string        `json:"gameDate"`
	Status   gameStatus    `json:"status"`
	Teams    scheduleTeams `json:"teams"`
}

type gameStatus struct {
	AbstractGameCode string `json:"abstractGameCode"`
	DetailedState    string `json:"detailedState"`
}

type scheduleTeams struct {
	Away scheduleSide `json:"away"`
	Home scheduleSide `json:"home"`
}

type scheduleSide struct {
	Team teamResponse `json:"team"`
}

type teamResponse struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

type contentResponse struct {
	Media      contentMedia      `json:"media"`
	Highlights contentHighlights `json:"highlights"`
}

type contentMedia struct {
	EpgAlternate []epgAlternate `json:"epgAlternate"`
}

type epgAlternate struct {
	Title string        `json:"title"`
	Items []contentItem `json:"items"`
}

type contentHighlights struct {
	Highlights struct {
		Items []contentItem `json:"items"`
	} `json:"highlights"`
}

type contentItem struct {
	Title     string               `json:"title"`
	Headline  string               `json:"headline"`
	Keywords  []keyword            `json:"keywordsAll"`
	Playbacks []providers.Playback `json:"playbacks"`
	Image     contentImage         `json:"image"`
}

type keyword struct {
	Type        string `json:"type"`
	Value       string `json:"value"`
	DisplayName string `json:"displayName"`
}

type contentImage struct {
	Cuts []imageCut `json:"cuts"`
}

type imageCut struct {
	Src   string `json:"src"`
	Width int    `json:"width"`
}
