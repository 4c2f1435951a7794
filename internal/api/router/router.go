package router

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"school-ierp/backend/config"
	"school-ierp/backend/internal/api/handler"
	"school-ierp/backend/internal/api/middleware"
	"school-ierp/backend/internal/dto"
	"school-ierp/backend/pkg/jwt"
	"school-ierp/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 可为 nil：此时跳过 Token 黑名单检查与限流
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := dto.RegisterValidators(v); err != nil {
			return nil, err
		}
	}

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger, "/health", cfg.Metrics.Path))
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── 健康检查 / 指标 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	// 写接口限流
	var writeLimit gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if cfg.RateLimit.Enabled {
		writeLimit = middleware.RateLimit(rdb, cfg.RateLimit.Limit, cfg.RateLimit.Window)
	}

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	authorized := v1.Group("")
	authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
	{
		// 时间段目录
		timeSlots := authorized.Group("/time-slots")
		{
			timeSlots.GET("", h.TimeSlot.ListTimeSlots)
			timeSlots.GET("/:id", h.TimeSlot.GetTimeSlot)
			timeSlots.POST("", middleware.RoleAuth(jwt.RoleAdmin), writeLimit, h.TimeSlot.CreateTimeSlot)
			timeSlots.DELETE("/:id", middleware.RoleAuth(jwt.RoleAdmin), writeLimit, h.TimeSlot.DeleteTimeSlot)
		}

		// 课表（班主任权限在 Service 层校验）
		timetables := authorized.Group("/timetables")
		{
			timetables.GET("", h.Timetable.ListTimetables)
			timetables.GET("/lookup", h.Timetable.LookupTimetable)
			timetables.GET("/grid", h.Timetable.GetGridByKey)
			timetables.GET("/:id", h.Timetable.GetTimetable)
			timetables.GET("/:id/grid", h.Timetable.GetGrid)
			timetables.POST("", writeLimit, h.Timetable.GetOrCreateTimetable)
			timetables.POST("/:id/periods", writeLimit, h.Timetable.AddPeriod)
		}

		// 课节
		periods := authorized.Group("/periods")
		{
			periods.GET("/:id", h.Timetable.GetPeriod)
			periods.DELETE("/:id", writeLimit, h.Timetable.DeletePeriod)
		}

		// 教师课表
		teachers := authorized.Group("/teachers")
		{
			teachers.GET("/me/schedule", middleware.RoleAuth(jwt.RoleTeacher), h.Timetable.GetMySchedule)
			teachers.GET("/:teacherId/schedule", h.Timetable.GetTeacherSchedule)
		}

		// 导出
		export := authorized.Group("/export")
		{
			export.GET("/timetables/:id", h.Export.ExportTimetable)
			export.GET("/teachers/:teacherId/schedule", h.Export.ExportTeacherSchedule)
			export.GET("/teachers/:teacherId/calendar", h.Export.ExportTeacherCalendar)
		}
	}

	return r, nil
}
