package service

import (
	"context"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/trade_radar/app/dashboard/internal/domain"
	"github.com/iWorld-y/trade_radar/app/dashboard/internal/usecase"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/article"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/model"
)

type SaveAPIKeyReq struct {
	Key string `json:"key"`
}

// Redact 访问日志中隐藏密钥
func (r *SaveAPIKeyReq) Redact() string {
	return "{Key:***}"
}

type SetLanguageReq struct {
	Language string `json:"language"`
}

type AnalyzeReq struct {
	Link string `json:"link"`
}

type AnalyzeReply struct {
	Result *model.AnalysisResult `json:"result"`
}

type ScanReply struct {
	Accepted bool   `json:"accepted"`
	Message  string `json:"message"`
}

type ArticleReq struct {
	Link string `json:"link" form:"link"`
}

type HealthReply struct {
	Status string `json:"status"`
}

type DashboardService struct {
	uc  *usecase.SessionUseCase
	log *log.Helper
}

func NewDashboardService(uc *usecase.SessionUseCase, logger log.Logger) *DashboardService {
	return &DashboardService{
		uc:  uc,
		log: log.NewHelper(logger),
	}
}

func (s *DashboardService) GetState(ctx context.Context) (*domain.State, error) {
	return s.uc.State(), nil
}

func (s *DashboardService) ReloadFeed(ctx context.Context) (*domain.State, error) {
	if err := s.uc.Reload(ctx); err != nil {
		return nil, toHTTPError(err)
	}
	return s.uc.State(), nil
}

func (s *DashboardService) SaveAPIKey(ctx context.Context, req *SaveAPIKeyReq) (*domain.State, error) {
	if err := s.uc.SaveAPIKey(req.Key); err != nil {
		return nil, toHTTPError(err)
	}
	return s.uc.State(), nil
}

func (s *DashboardService) SetLanguage(ctx context.Context, req *SetLanguageReq) (*domain.State, error) {
	if err := s.uc.SetLanguage(req.Language); err != nil {
		return nil, toHTTPError(err)
	}
	return s.uc.State(), nil
}

func (s *DashboardService) AnalyzeItem(ctx context.Context, req *AnalyzeReq) (*AnalyzeReply, error) {
	res, err := s.uc.Analyze(ctx, req.Link)
	if err != nil {
		return nil, toHTTPError(err)
	}
	return &AnalyzeReply{Result: res}, nil
}

func (s *DashboardService) StartScan(ctx context.Context) (*ScanReply, error) {
	if err := s.uc.StartScan(ctx); err != nil {
		return nil, toHTTPError(err)
	}
	return &ScanReply{Accepted: true, Message: "scan started"}, nil
}

func (s *DashboardService) GetArticle(ctx context.Context, req *ArticleReq) (*article.Article, error) {
	a, err := s.uc.Article(ctx, req.Link)
	if err != nil {
		return nil, toHTTPError(err)
	}
	return a, nil
}

func (s *DashboardService) Health(ctx context.Context) (*HealthReply, error) {
	return &HealthReply{Status: "ok"}, nil
}

// toHTTPError 只把面向用户的提示语返回给前端，原始错误只记日志
func toHTTPError(err error) error {
	se, ok := domain.AsError(err)
	if !ok {
		return errors.InternalServer("INTERNAL", "internal error")
	}
	reason := string(se.Kind)
	switch se.Kind {
	case domain.KindInvalidInput:
		return errors.BadRequest(reason, se.Message)
	case domain.KindMissingConfig:
		return errors.New(412, reason, se.Message)
	case domain.KindNotFound:
		return errors.NotFound(reason, se.Message)
	case domain.KindBusy:
		return errors.Conflict(reason, se.Message)
	case domain.KindUpstream:
		return errors.New(502, reason, se.Message)
	default:
		return errors.InternalServer(reason, se.Message)
	}
}
