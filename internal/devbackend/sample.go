package devbackend

import "movierec-web/internal/models"

// SampleMovies son ocho películas ya ordenadas por título: con limit 5 dan
// una página de 5 y otra de 3. La 42 empieza sin favorito y la 3 con.
func SampleMovies() []models.RecommendationItem {
	return []models.RecommendationItem{
		{
			MovieID: 11, Title: "Akira", Year: 1988, Duration: 124,
			Description: "A secret military project endangers Neo-Tokyo.",
			PosterURL:   "https://img.example.org/akira.jpg", PageURL: "https://example.org/movies/11",
			Sim: 0.91, AvgRating: 8.0,
			Genres: []string{"Animation", "Sci-Fi"}, Studios: []string{"TMS Entertainment"},
			Producers: []string{"Ryohei Suzuki"}, Cast: []string{"Mitsuo Iwata", "Nozomu Sasaki"},
			Director: "Katsuhiro Otomo",
		},
		{
			MovieID: 42, Title: "Blade Runner", Year: 1982, Duration: 117,
			Description: "A blade runner must pursue and terminate four replicants.",
			PosterURL:   "https://img.example.org/blade-runner.jpg", PageURL: "https://example.org/movies/42",
			Sim: 0.875, AvgRating: 8.25,
			Genres: []string{"Sci-Fi", "Thriller"}, Studios: []string{"Warner Bros."},
			Producers: []string{"Michael Deeley"}, Cast: []string{"Harrison Ford", "Rutger Hauer", "Sean Young"},
			Director: "Ridley Scott",
		},
		{
			MovieID: 7, Title: "Chinatown", Year: 1974, Duration: 130,
			Description: "A private detective uncovers a web of deceit in Los Angeles.",
			PosterURL:   "https://img.example.org/chinatown.jpg", PageURL: "https://example.org/movies/7",
			Sim: 0.42, AvgRating: 8.1,
			Genres: []string{"Drama", "Mystery"}, Studios: []string{"Paramount Pictures"},
			Producers: []string{"Robert Evans"}, Cast: []string{"Jack Nicholson", "Faye Dunaway"},
			Director: "Roman Polanski",
		},
		{
			MovieID: 3, Title: "Dune", Year: 2021, Duration: 155,
			Description: "A noble family becomes embroiled in a war for a desert planet.",
			PosterURL:   "https://img.example.org/dune.jpg", PageURL: "https://example.org/movies/3",
			Sim: 0.88, AvgRating: 7.9,
			Genres: []string{"Adventure", "Sci-Fi"}, Studios: []string{"Legendary Pictures"},
			Producers: []string{"Mary Parent", "Denis Villeneuve"}, Cast: []string{"Timothée Chalamet", "Rebecca Ferguson"},
			Director: "Denis Villeneuve", Faved: true,
		},
		{
			MovieID: 19, Title: "Fargo", Year: 1996, Duration: 98,
			Description: "A car salesman's botched kidnapping scheme spirals out of control.",
			PosterURL:   "https://img.example.org/fargo.jpg", PageURL: "https://example.org/movies/19",
			Sim: 0.33, AvgRating: 8.1,
			Genres: []string{"Crime", "Thriller"}, Studios: []string{"PolyGram Filmed Entertainment"},
			Producers: []string{"Ethan Coen"}, Cast: []string{"Frances McDormand", "William H. Macy"},
			Director: "Joel Coen",
		},
		{
			MovieID: 23, Title: "Gattaca", Year: 1997, Duration: 106,
			Description: "A genetically inferior man assumes the identity of a superior one.",
			PosterURL:   "https://img.example.org/gattaca.jpg", PageURL: "https://example.org/movies/23",
			Sim: 0.79, AvgRating: 7.8,
			Genres: []string{"Drama", "Sci-Fi"}, Studios: []string{"Columbia Pictures"},
			Producers: []string{"Danny DeVito"}, Cast: []string{"Ethan Hawke", "Uma Thurman"},
			Director: "Andrew Niccol",
		},
		{
			MovieID: 31, Title: "Heat", Year: 1995, Duration: 170,
			Description: "A detective hunts a crew of professional thieves.",
			PosterURL:   "https://img.example.org/heat.jpg", PageURL: "https://example.org/movies/31",
			Sim: 0.3, AvgRating: 8.3,
			Genres: []string{"Action", "Crime"}, Studios: []string{"Warner Bros."},
			Producers: []string{"Art Linson"}, Cast: []string{"Al Pacino", "Robert De Niro"},
			Director: "Michael Mann",
		},
		{
			MovieID: 5, Title: "Solaris", Year: 1972, Duration: 167,
			Description: "A psychologist is sent to a station orbiting a mysterious planet.",
			PosterURL:   "https://img.example.org/solaris.jpg", PageURL: "https://example.org/movies/5",
			Sim: 0.67, AvgRating: 8.0,
			Genres: []string{"Drama", "Sci-Fi"}, Studios: []string{"Mosfilm"},
			Producers: []string{"Viacheslav Tarasov"}, Cast: []string{"Natalya Bondarchuk", "Donatas Banionis"},
			Director: "Andrei Tarkovsky",
		},
	}
}
