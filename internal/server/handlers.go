package server

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/KaramelBytes/premiumlens/internal/predict"
	"github.com/KaramelBytes/premiumlens/internal/render"
	"github.com/KaramelBytes/premiumlens/internal/views"
	"github.com/gin-gonic/gin"
)

// pageData feeds every HTML template.
type pageData struct {
	Title    string
	Page     views.Page
	Pages    []views.Page
	Error    string
	Choices  *predict.Choices
	Selected predict.Record
	Estimate string
	Sections []renderedSection
}

type renderedSection struct {
	Heading string
	Figure  template.HTML
}

// predictRequest is the body of both prediction endpoints. Pointers let
// zero values such as children=0 pass the required check.
type predictRequest struct {
	Age      *int     `json:"age" form:"age" binding:"required"`
	Sex      string   `json:"sex" form:"sex" binding:"required"`
	BMI      *float64 `json:"bmi" form:"bmi" binding:"required"`
	Children *int     `json:"children" form:"children" binding:"required"`
	Smoker   string   `json:"smoker" form:"smoker" binding:"required"`
	Region   string   `json:"region" form:"region" binding:"required"`
}

func (r predictRequest) record() predict.Record {
	return predict.Record{
		Age:      *r.Age,
		Sex:      r.Sex,
		BMI:      *r.BMI,
		Children: *r.Children,
		Smoker:   r.Smoker,
		Region:   r.Region,
	}
}

type predictResponse struct {
	RequestID string         `json:"request_id"`
	Record    predict.Record `json:"record"`
	Charges   float64        `json:"charges"`
	Message   string         `json:"message"`
}

func (s *Server) page(p views.Page) pageData {
	return pageData{Title: string(p), Page: p, Pages: views.Pages, Choices: s.deps.Choices}
}

func (s *Server) showPrediction(c *gin.Context) {
	d := s.page(views.Prediction)
	d.Selected = s.deps.Choices.Default()
	c.HTML(http.StatusOK, "prediction.html", d)
}

func (s *Server) showPage(c *gin.Context) {
	p, err := views.ParsePage(c.Param("page"))
	if err != nil {
		d := s.page("")
		d.Title, d.Error = "Not found", err.Error()
		c.HTML(http.StatusNotFound, "error.html", d)
		return
	}
	if !p.IsAnalysis() {
		s.showPrediction(c)
		return
	}
	d := s.page(p)
	sections, err := s.pages[p].Get()
	if err != nil {
		_ = c.Error(err)
		d.Error = err.Error()
		c.HTML(http.StatusInternalServerError, "analysis.html", d)
		return
	}
	d.Sections = sections
	c.HTML(http.StatusOK, "analysis.html", d)
}

func (s *Server) renderPage(p views.Page) ([]renderedSection, error) {
	sections, err := views.Build(s.deps.Table, p)
	if err != nil {
		return nil, err
	}
	out := make([]renderedSection, 0, len(sections))
	for _, sec := range sections {
		h, err := render.Figure(sec.Figure, s.deps.Size)
		if err != nil {
			return nil, err
		}
		out = append(out, renderedSection{Heading: sec.Heading, Figure: h})
	}
	return out, nil
}

func (s *Server) submitPrediction(c *gin.Context) {
	d := s.page(views.Prediction)
	d.Selected = s.deps.Choices.Default()
	var req predictRequest
	if err := c.ShouldBind(&req); err != nil {
		d.Error = "invalid form: " + err.Error()
		c.HTML(http.StatusBadRequest, "prediction.html", d)
		return
	}
	rec := req.record()
	d.Selected = rec
	y, status, err := s.predict(c, rec)
	if err != nil {
		d.Error = err.Error()
		c.HTML(status, "prediction.html", d)
		return
	}
	d.Estimate = predict.FormatCharges(y)
	c.HTML(http.StatusOK, "prediction.html", d)
}

// predict validates rec against the offered choices and runs the pipeline.
// The status is the HTTP code to report when err is non-nil.
func (s *Server) predict(c *gin.Context, rec predict.Record) (float64, int, error) {
	if err := s.deps.Choices.Validate(rec); err != nil {
		return 0, http.StatusBadRequest, err
	}
	y, err := s.deps.Pipeline.Predict(rec)
	if err != nil {
		_ = c.Error(err)
		var ue *predict.UnknownCategoryError
		if errors.As(err, &ue) {
			return 0, http.StatusBadRequest, err
		}
		return 0, http.StatusInternalServerError, err
	}
	s.log.Info("prediction", "request_id", c.GetString(ctxRequestID), "record", rec.String(), "charges", y)
	return y, http.StatusOK, nil
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"dataset":  s.deps.Table.Name(),
		"rows":     s.deps.Table.Nrow(),
		"model":    s.deps.Pipeline.Model.Kind(),
		"inputs":   s.deps.Pipeline.Transformer.Schema(),
		"features": s.deps.Pipeline.Transformer.Width(),
	})
}

func (s *Server) apiChoices(c *gin.Context) {
	c.JSON(http.StatusOK, s.deps.Choices)
}

func (s *Server) apiPredict(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request",
			"details": err.Error(),
		})
		return
	}
	rec := req.record()
	y, status, err := s.predict(c, rec)
	if err != nil {
		c.JSON(status, gin.H{
			"error":   "prediction failed",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, predictResponse{
		RequestID: c.GetString(ctxRequestID),
		Record:    rec,
		Charges:   y,
		Message:   predict.FormatCharges(y),
	})
}

func (s *Server) apiView(c *gin.Context) {
	p, err := views.ParsePage(c.Param("page"))
	if err != nil || !p.IsAnalysis() {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such view", "page": c.Param("page")})
		return
	}
	sections, err := views.Build(s.deps.Table, p)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "build view", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"page": p, "sections": sections})
}
