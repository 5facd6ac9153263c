package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/user/moovie/internal/metrics"
	"github.com/user/moovie/internal/model"
	"github.com/user/moovie/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const omdbNotFound = "Movie not found!"

var (
	errCatalogUnavailable = newError(ErrUpstream, "影片库暂时不可用")
	errMovieNotFound      = newError(ErrNotFound, "影片不存在")
)

type omdbSearchResponse struct {
	Search       []omdbMovie `json:"Search"`
	TotalResults string      `json:"totalResults"`
	Response     string      `json:"Response"`
	Error        string      `json:"Error"`
}

type omdbMovie struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	ImdbID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

type omdbDetailResponse struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Rated      string `json:"Rated"`
	Released   string `json:"Released"`
	Runtime    string `json:"Runtime"`
	Genre      string `json:"Genre"`
	Director   string `json:"Director"`
	Actors     string `json:"Actors"`
	Plot       string `json:"Plot"`
	Poster     string `json:"Poster"`
	ImdbRating string `json:"imdbRating"`
	ImdbID     string `json:"imdbID"`
	Response   string `json:"Response"`
	Error      string `json:"Error"`
}

// CatalogService OMDb 影片库（只读）
type CatalogService struct {
	client  *utils.HTTPClient
	baseURL string
	apiKey  string
	timeout time.Duration
	group   singleflight.Group
	log     *zap.Logger
}

// NewCatalogService 创建影片库服务
func NewCatalogService(baseURL, apiKey string, timeout time.Duration, log *zap.Logger) *CatalogService {
	return &CatalogService{
		client:  utils.NewHTTPClient(timeout),
		baseURL: baseURL,
		apiKey:  apiKey,
		timeout: timeout,
		log:     log,
	}
}

// Search 按标题搜索影片，没有结果时返回空列表
func (s *CatalogService) Search(ctx context.Context, query string) ([]model.MovieSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, newError(ErrValidation, "q 为必填项")
	}

	// 使用 singleflight 合并相同的并发查询
	val, err, _ := s.group.Do("search:"+strings.ToLower(query), func() (interface{}, error) {
		shared, cancel := s.sharedContext(ctx)
		defer cancel()
		return s.search(shared, query)
	})
	if err != nil {
		return nil, err
	}
	return val.([]model.MovieSummary), nil
}

func (s *CatalogService) search(ctx context.Context, query string) ([]model.MovieSummary, error) {
	var resp omdbSearchResponse
	if err := s.get(ctx, url.Values{"s": {query}, "type": {"movie"}, "page": {"1"}}, &resp); err != nil {
		return nil, s.upstream("search", err)
	}

	if resp.Response != "True" {
		if resp.Error == omdbNotFound {
			metrics.CatalogRequestsTotal.WithLabelValues("search", "empty").Inc()
			return []model.MovieSummary{}, nil
		}
		return nil, s.upstream("search", errors.New(resp.Error))
	}

	results := make([]model.MovieSummary, 0, len(resp.Search))
	for _, m := range resp.Search {
		results = append(results, model.MovieSummary{
			MovieID:    m.ImdbID,
			Title:      m.Title,
			Year:       m.Year,
			PosterPath: normalizePoster(m.Poster),
			Type:       m.Type,
		})
	}
	metrics.CatalogRequestsTotal.WithLabelValues("search", "ok").Inc()
	return results, nil
}

// Detail 按 IMDb ID 获取影片详情
func (s *CatalogService) Detail(ctx context.Context, imdbID string) (*model.MovieDetail, error) {
	imdbID = strings.TrimSpace(imdbID)
	if imdbID == "" {
		return nil, newError(ErrValidation, "id 为必填项")
	}

	val, err, _ := s.group.Do("detail:"+imdbID, func() (interface{}, error) {
		shared, cancel := s.sharedContext(ctx)
		defer cancel()
		return s.detail(shared, imdbID)
	})
	if err != nil {
		return nil, err
	}
	return val.(*model.MovieDetail), nil
}

func (s *CatalogService) detail(ctx context.Context, imdbID string) (*model.MovieDetail, error) {
	var resp omdbDetailResponse
	if err := s.get(ctx, url.Values{"i": {imdbID}, "plot": {"short"}}, &resp); err != nil {
		return nil, s.upstream("detail", err)
	}

	if resp.Response != "True" {
		// OMDb 对非法 ID 返回 "Incorrect IMDb ID."
		if resp.Error == omdbNotFound || strings.HasPrefix(resp.Error, "Incorrect IMDb ID") {
			metrics.CatalogRequestsTotal.WithLabelValues("detail", "not_found").Inc()
			return nil, errMovieNotFound
		}
		return nil, s.upstream("detail", errors.New(resp.Error))
	}

	metrics.CatalogRequestsTotal.WithLabelValues("detail", "ok").Inc()
	return &model.MovieDetail{
		MovieID:    resp.ImdbID,
		Title:      resp.Title,
		Year:       resp.Year,
		Rated:      resp.Rated,
		Released:   resp.Released,
		Runtime:    resp.Runtime,
		Genre:      resp.Genre,
		Director:   resp.Director,
		Actors:     resp.Actors,
		Plot:       resp.Plot,
		PosterPath: normalizePoster(resp.Poster),
		IMDbRating: resp.ImdbRating,
	}, nil
}

// sharedContext 合并后的请求不随首个调用方取消，只受客户端超时约束
func (s *CatalogService) sharedContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
}

func (s *CatalogService) get(ctx context.Context, params url.Values, target interface{}) error {
	if s.apiKey == "" {
		return errors.New("OMDB_API_KEY 未配置")
	}
	params.Set("apikey", s.apiKey)
	return s.client.GetJSON(ctx, s.baseURL+"?"+params.Encode(), target)
}

func (s *CatalogService) upstream(kind string, err error) error {
	metrics.CatalogRequestsTotal.WithLabelValues(kind, "error").Inc()
	s.log.Warn("[CatalogService] 影片库请求失败", zap.String("kind", kind), zap.Error(err))
	return errCatalogUnavailable
}

// normalizePoster OMDb 用 "N/A" 表示没有海报
func normalizePoster(poster string) string {
	if poster == "N/A" {
		return ""
	}
	return poster
}
