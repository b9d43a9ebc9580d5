package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"lead_scoring/config"
	_ "lead_scoring/docs" // 导入 swagger 文档
	"lead_scoring/logger"
	"lead_scoring/models"
	"lead_scoring/services"
	"lead_scoring/utils"
)

const maxBodyBytes = 1 << 20

// wholeNumber 接受 720、720.0 和 "720" 三种写法，带小数部分的值报错
type wholeNumber int

func (n *wholeNumber) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("%s is not a number", b)
	}
	if f != math.Trunc(f) {
		return fmt.Errorf("%s is not a whole number", b)
	}
	if math.Abs(f) > 1<<53 {
		return fmt.Errorf("%s is out of range", b)
	}
	*n = wholeNumber(f)
	return nil
}

// scoreRequest 请求体解析结构，必填字段用指针区分缺失和零值
type scoreRequest struct {
	PhoneNumber       *string      `json:"phone_number"`
	Email             *string      `json:"email"`
	CreditScore       *wholeNumber `json:"credit_score"`
	AgeGroup          *string      `json:"age_group"`
	FamilyBackground  *string      `json:"family_background"`
	Income            *wholeNumber `json:"income"`
	PropertyType      *string      `json:"property_type"`
	Budget            *wholeNumber `json:"budget"`
	PreferredLocation *string      `json:"preferred_location"`
	Comments          *string      `json:"comments"`
}

// toSubmission 检查必填字段后转换为 LeadSubmission
func (req *scoreRequest) toSubmission() (*models.LeadSubmission, error) {
	var missing []string
	str := func(name string, v *string) string {
		if v == nil {
			missing = append(missing, name)
			return ""
		}
		return *v
	}
	num := func(name string, v *wholeNumber) int {
		if v == nil {
			missing = append(missing, name)
			return 0
		}
		return int(*v)
	}

	lead := &models.LeadSubmission{
		PhoneNumber:       str("phone_number", req.PhoneNumber),
		Email:             str("email", req.Email),
		CreditScore:       num("credit_score", req.CreditScore),
		AgeGroup:          str("age_group", req.AgeGroup),
		FamilyBackground:  str("family_background", req.FamilyBackground),
		Income:            num("income", req.Income),
		PropertyType:      str("property_type", req.PropertyType),
		Budget:            num("budget", req.Budget),
		PreferredLocation: str("preferred_location", req.PreferredLocation),
	}
	if req.Comments != nil {
		lead.Comments = *req.Comments
	}
	if len(missing) > 0 {
		return nil, errors.New("Missing required fields: " + strings.Join(missing, ", "))
	}
	return lead, nil
}

// ScoreLeadHandler godoc
// @Summary 线索评分
// @Description 校验线索信息，使用模型给出初始分，再按备注关键词重排，返回两个分数
// @Tags 评分
// @Accept json
// @Produce json
// @Param lead body models.LeadSubmission true "线索信息"
// @Success 200 {object} models.ScoreResponse "成功"
// @Failure 400 {object} models.ErrorResponse "参数错误"
// @Failure 500 {object} models.ErrorResponse "服务器错误"
// @Router /score [post]
func ScoreLeadHandler(w http.ResponseWriter, r *http.Request, svc services.LeadScoringService) {
	var req scoreRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, models.CodeInvalidBody, err.Error())
		return
	}
	lead, err := req.toSubmission()
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, models.CodeInvalidParams, err.Error())
		return
	}

	resp, err := svc.Score(r.Context(), lead)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			utils.WriteErrorResponse(w, http.StatusBadRequest, models.CodeInvalidParams, verr.Error())
		case errors.Is(err, services.ErrScoring):
			logger.Error("线索评分失败", "error", err)
			utils.WriteErrorResponse(w, http.StatusInternalServerError, models.CodeModelError, err.Error())
		case errors.Is(err, services.ErrStore):
			logger.Error("线索写入失败", "error", err)
			utils.WriteErrorResponse(w, http.StatusInternalServerError, models.CodeStoreError, err.Error())
		default:
			logger.Error("线索评分失败", "error", err)
			utils.WriteErrorResponse(w, http.StatusInternalServerError, models.CodeServerError, err.Error())
		}
		return
	}

	utils.WriteSuccessResponse(w, resp)
}

// HealthHandler godoc
// @Summary 健康检查
// @Description 返回模型特征维度和已记录线索数
// @Tags 系统
// @Produce json
// @Success 200 {object} models.HealthResponse "成功"
// @Router /healthz [get]
func HealthHandler(w http.ResponseWriter, r *http.Request, svc services.LeadScoringService) {
	utils.WriteSuccessResponse(w, svc.Health())
}

// NewCORS 根据配置构建跨域中间件，默认放开所有来源
func NewCORS(cfg *config.Config) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
	})
}

func RegisterRoutes(r chi.Router, svc services.LeadScoringService) {
	// Swagger 文档
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"), // Swagger JSON 的 URL
	))

	r.Post("/score", func(w http.ResponseWriter, r *http.Request) {
		ScoreLeadHandler(w, r, svc)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		HealthHandler(w, r, svc)
	})
}
