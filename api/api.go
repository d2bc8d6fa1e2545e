package api

import (
	"bytes"
	"database/sql"
	"fmt"
	"io"
	"log"
	"pricehistory/internal/db/models/postgres/public/model"
	"pricehistory/internal/repository"
	"pricehistory/internal/service"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type ApiHandler struct {
	Db                   *sql.DB
	HistoryService       service.HistoryService
	ApiRequestRepository repository.ApiRequestRepository
}

func int64Ptr(i int64) *int64 {
	return &i
}
func int32Ptr(i int32) *int32 {
	return &i
}
func strPtr(s string) *string {
	return &s
}

func (m ApiHandler) StartApi(port int) error {
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(m.logRequestMiddlware)

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "welcome to pricehistory"})
	})
	router.GET("/health", m.health)
	router.GET("/history/:symbol", m.history)
	router.POST("/backfill", m.backfill)

	return router.Run(fmt.Sprintf(":%d", port))
}

func returnErrorJson(err error, c *gin.Context) {
	fmt.Println(err.Error())
	c.AbortWithStatusJSON(500, gin.H{
		"error": err.Error(),
	})
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	fmt.Println(err.Error())
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}

type responseBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (r responseBodyWriter) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (m ApiHandler) logRequestMiddlware(ctx *gin.Context) {
	w := &responseBodyWriter{body: &bytes.Buffer{}, ResponseWriter: ctx.Writer}
	ctx.Writer = w

	body, err := ctx.GetRawData()
	if err != nil {
		log.Println(fmt.Errorf("failed to get raw data: %w", err))
	}
	ctx.Request.Body = io.NopCloser(bytes.NewReader(body))

	start := time.Now().UTC()
	req, err := m.ApiRequestRepository.Add(m.Db, model.APIRequest{
		IPAddress:   strPtr(ctx.ClientIP()),
		Method:      ctx.Request.Method,
		Route:       ctx.Request.URL.Path,
		RequestBody: strPtr(string(body)),
		StartTs:     start,
	})
	if err != nil {
		log.Println(err)
	}

	ctx.Next()

	if req != nil {
		req.DurationMs = int64Ptr(time.Since(start).Milliseconds())
		req.StatusCode = int32Ptr(int32(ctx.Writer.Status()))
		req.ResponseBody = strPtr(w.body.String())

		err = m.ApiRequestRepository.Update(m.Db, *req)
		if err != nil {
			log.Println(err)
		}
	}
}
