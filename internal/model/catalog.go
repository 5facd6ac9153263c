package model

// MovieSummary 外部影片库的搜索结果
type MovieSummary struct {
	MovieID    string `json:"movieId"`
	Title      string `json:"title"`
	Year       string `json:"year"`
	PosterPath string `json:"posterPath"`
	Type       string `json:"type"`
}

// MovieDetail 外部影片库的详情
type MovieDetail struct {
	MovieID    string `json:"movieId"`
	Title      string `json:"title"`
	Year       string `json:"year"`
	Rated      string `json:"rated"`
	Released   string `json:"released"`
	Runtime    string `json:"runtime"`
	Genre      string `json:"genre"`
	Director   string `json:"director"`
	Actors     string `json:"actors"`
	Plot       string `json:"plot"`
	PosterPath string `json:"posterPath"`
	IMDbRating string `json:"imdbRating"`
}

// Summary 详情转换为搜索结果形态
func (d MovieDetail) Summary() MovieSummary {
	return MovieSummary{
		MovieID:    d.MovieID,
		Title:      d.Title,
		Year:       d.Year,
		PosterPath: d.PosterPath,
		Type:       "movie",
	}
}

// CatalogKind 影片条目的来源
type CatalogKind int

const (
	KindSearchResult CatalogKind = iota + 1
	KindWatchlistEntry
)

func (k CatalogKind) String() string {
	switch k {
	case KindSearchResult:
		return "search_result"
	case KindWatchlistEntry:
		return "watchlist_entry"
	}
	return "unknown"
}

// CatalogItem 搜索结果与片单条目的统一视图
// 调用方按 Kind 分支处理，不要通过字段是否为空来猜测来源
type CatalogItem struct {
	Kind   CatalogKind
	Result *MovieSummary
	Entry  *WatchlistEntry
}

// FromSearchResult 由搜索结果构造
func FromSearchResult(m MovieSummary) CatalogItem {
	return CatalogItem{Kind: KindSearchResult, Result: &m}
}

// FromEntry 由片单条目构造
func FromEntry(e WatchlistEntry) CatalogItem {
	return CatalogItem{Kind: KindWatchlistEntry, Entry: &e}
}

func (c CatalogItem) MovieID() string {
	switch c.Kind {
	case KindSearchResult:
		return c.Result.MovieID
	case KindWatchlistEntry:
		return c.Entry.MovieID
	}
	return ""
}

func (c CatalogItem) Title() string {
	switch c.Kind {
	case KindSearchResult:
		return c.Result.Title
	case KindWatchlistEntry:
		return c.Entry.Title
	}
	return ""
}

func (c CatalogItem) Year() string {
	switch c.Kind {
	case KindSearchResult:
		return c.Result.Year
	case KindWatchlistEntry:
		return c.Entry.Year
	}
	return ""
}

func (c CatalogItem) Poster() string {
	switch c.Kind {
	case KindSearchResult:
		return c.Result.PosterPath
	case KindWatchlistEntry:
		return c.Entry.PosterPath
	}
	return ""
}

// CreateInput 生成添加到片单的请求
func (c CatalogItem) CreateInput() CreateEntryInput {
	in := CreateEntryInput{
		MovieID:    c.MovieID(),
		Title:      c.Title(),
		Year:       c.Year(),
		PosterPath: c.Poster(),
	}
	if c.Kind == KindWatchlistEntry {
		in.Status = c.Entry.Status
		in.Note = c.Entry.Note
		in.Tags = append([]string(nil), c.Entry.Tags...)
	}
	return in
}
