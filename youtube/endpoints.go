package youtube

// Endpoints are the base URLs of the upstream services. Tests point them at
// httptest servers.
type Endpoints struct {
	DataAPI string
	Site    string
	Dislike string
}

// DefaultEndpoints are the production base URLs.
var DefaultEndpoints = Endpoints{
	DataAPI: "https://www.googleapis.com/youtube/v3",
	Site:    "https://www.youtube.com",
	Dislike: "https://returnyoutubedislikeapi.com",
}
