package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/talentra/ems-api/internal/middleware"
	"github.com/talentra/ems-api/internal/models"
	"github.com/talentra/ems-api/internal/service"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Auth         *AuthHandler
	Attendance   *AttendanceHandler
	Employee     *EmployeeHandler
	Leave        *LeaveHandler
	Project      *ProjectHandler
	Document     *DocumentHandler
	Skill        *SkillHandler
	Salary       *SalaryHandler
	Refdata      *RefdataHandler
	Notification *NotificationHandler
	Metrics      *MetricsHandler
}

// RegisterRoutes mounts the API surface under the given prefix.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, authService *service.AuthService) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group(prefix)
	api.Use(middleware.WithResponseMeta())

	auth := api.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
	}

	authed := api.Group("")
	authed.Use(middleware.JWT(authService))
	{
		authed.POST("/auth/logout", h.Auth.Logout)
		authed.POST("/auth/change-password", h.Auth.ChangePassword)
		authed.GET("/auth/me", h.Auth.Me)

		attendance := authed.Group("/attendance")
		{
			attendance.GET("/today", h.Attendance.Today)
			attendance.POST("/check-in", h.Attendance.CheckIn)
			attendance.POST("/check-out", h.Attendance.CheckOut)
		}

		employees := authed.Group("/employees")
		{
			employees.GET("", middleware.RequireRoles(models.RoleAdmin, models.RoleSupervisor), h.Employee.List)
			employees.POST("", middleware.RequireRoles(models.RoleAdmin), h.Employee.Create)
			employees.GET("/:employeeId", h.Employee.Get)
			employees.PUT("/:employeeId", middleware.RequireRoles(models.RoleAdmin), h.Employee.Update)
			employees.DELETE("/:employeeId", middleware.RequireRoles(models.RoleAdmin), h.Employee.Deactivate)

			employees.GET("/:employeeId/attendance", h.Attendance.MonthView)
			employees.GET("/:employeeId/attendance/export", h.Attendance.ExportMonth)

			employees.GET("/:employeeId/documents", h.Document.List)
			employees.POST("/:employeeId/documents", h.Document.Upload)
			employees.GET("/:employeeId/documents/:id", h.Document.Download)
			employees.DELETE("/:employeeId/documents/:id", middleware.RequireRoles(models.RoleAdmin), h.Document.Delete)

			employees.GET("/:employeeId/skills", h.Skill.List)
			employees.PUT("/:employeeId/skills", h.Skill.Upsert)
			employees.DELETE("/:employeeId/skills/:id", h.Skill.Delete)

			employees.GET("/:employeeId/salary", h.Salary.History)
			employees.POST("/:employeeId/salary/payslips", h.Salary.RequestExport)
			employees.GET("/:employeeId/salary/payslips/:id", h.Salary.JobStatus)
			employees.GET("/:employeeId/salary/payslips/:id/url", h.Salary.DownloadURL)
		}

		leave := authed.Group("/leave")
		{
			leave.GET("", h.Leave.List)
			leave.POST("", h.Leave.Create)
			leave.GET("/:id", h.Leave.Get)
			leave.POST("/:id/approve", middleware.RequireRoles(models.RoleAdmin, models.RoleSupervisor), h.Leave.Approve)
			leave.POST("/:id/reject", middleware.RequireRoles(models.RoleAdmin, models.RoleSupervisor), h.Leave.Reject)
			leave.POST("/:id/cancel", h.Leave.Cancel)
		}

		projects := authed.Group("/projects")
		{
			projects.GET("", h.Project.List)
			projects.POST("", middleware.RequireRoles(models.RoleAdmin, models.RoleSupervisor), h.Project.Create)
			projects.GET("/:id", h.Project.Get)
			projects.PUT("/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleSupervisor), h.Project.Update)
			projects.GET("/:id/members", h.Project.Members)
			projects.POST("/:id/members", middleware.RequireRoles(models.RoleAdmin, models.RoleSupervisor), h.Project.AddMember)
			projects.DELETE("/:id/members/:employeeId", middleware.RequireRoles(models.RoleAdmin, models.RoleSupervisor), h.Project.RemoveMember)
		}

		refdata := authed.Group("/refdata")
		{
			refdata.GET("", h.Refdata.Bundle)
			refdata.POST("/departments", middleware.RequireRoles(models.RoleAdmin), h.Refdata.CreateDepartment)
			refdata.PUT("/departments/:id", middleware.RequireRoles(models.RoleAdmin), h.Refdata.UpdateDepartment)
			refdata.DELETE("/departments/:id", middleware.RequireRoles(models.RoleAdmin), h.Refdata.DeleteDepartment)
			refdata.POST("/designations", middleware.RequireRoles(models.RoleAdmin), h.Refdata.CreateDesignation)
			refdata.POST("/employee-types", middleware.RequireRoles(models.RoleAdmin), h.Refdata.CreateEmployeeType)
			refdata.POST("/leave-types", middleware.RequireRoles(models.RoleAdmin), h.Refdata.CreateLeaveType)
		}

		notifications := authed.Group("/notifications")
		{
			notifications.GET("", h.Notification.List)
			notifications.GET("/unread-count", h.Notification.UnreadCount)
			notifications.POST("/:id/read", h.Notification.MarkRead)
		}
	}

	// Token-authenticated file downloads sit outside the JWT group: the
	// signed token is the credential.
	r.GET("/files/payslips", h.Salary.DownloadByToken)
}
