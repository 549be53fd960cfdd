package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/scanote/internal/metrics"
	"github.com/hitoshi/scanote/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	CSRFConfig        middleware.CSRFConfig

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// ノート
	NoteService NoteServiceInterface

	// アップロード
	UploadPipeline UploadPipelineInterface
	MaxUploadSize  int64

	// 使用量
	QuotaGate QuotaGateInterface

	// エクスポート
	UserFinder   UserFinder
	HTMLExporter Exporter
	PDFExporter  Exporter

	// フィードバック
	FeedbackSender FeedbackSender

	// メトリクス公開
	MetricsGatherer prometheus.Gatherer
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Recovery → Logging → (認証グループ) Session → CSRF → RateLimit(General)
//
// 認証ルート（/auth/*）、/health、/metrics はセッション検証の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	noteHandler := NewNoteHandler(deps.NoteService)
	uploadHandler := NewUploadHandler(deps.UploadPipeline, deps.MaxUploadSize)
	usageHandler := NewUsageHandler(deps.QuotaGate)
	exportHandler := NewExportHandler(deps.NoteService, deps.UserFinder, deps.HTMLExporter, deps.PDFExporter)
	feedbackHandler := NewFeedbackHandler(deps.FeedbackSender, deps.UserFinder)

	// --- 認証不要のルート ---

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if deps.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.MetricsGatherer))
	}

	r.Get("/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig).ServeHTTP)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → CSRF → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// 画像アップロード（アップロード専用レート制限を追加）
		r.With(deps.RateLimiter.UploadMiddleware()).Post("/api/scans", uploadHandler.Upload)

		// ノート管理
		r.Route("/api/notes", func(r chi.Router) {
			r.Get("/", noteHandler.ListNotes)
			r.Post("/", noteHandler.CreateNote)
			r.Get("/search", noteHandler.SearchNotes)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", noteHandler.GetNote)
				r.Patch("/", noteHandler.UpdateNote)
				r.Delete("/", noteHandler.DeleteNote)
			})
		})

		// 使用量
		r.Get("/api/usage", usageHandler.GetUsage)

		// エクスポート
		r.Route("/api/export", func(r chi.Router) {
			r.Get("/html", exportHandler.ExportHTML)
			r.Get("/pdf", exportHandler.ExportPDF)
		})

		// フィードバック
		r.Post("/api/feedback", feedbackHandler.SendFeedback)
	})

	return r
}
