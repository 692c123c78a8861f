package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avcode/avcode-backend/internal/app/controllers"
	"github.com/avcode/avcode-backend/internal/app/models"
	"github.com/avcode/avcode-backend/internal/app/models/dto"
	"github.com/avcode/avcode-backend/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	ctrl *controllers.Controllers,
	authMiddleware *middleware.AuthMiddleware,
) {
	// Health check
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.MessageResponse{Message: "pong"})
	})

	// --- Public auth routes ---
	auth := router.Group("/auth")
	{
		auth.POST("/google", ctrl.AuthController.GoogleLogin)
	}

	// --- Authenticated routes ---
	authenticated := router.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", ctrl.AuthController.Me)

		// Instructor-owned course management
		course := authenticated.Group("/course")
		course.Use(authMiddleware.RolesRequired(models.RoleInstructor, models.RoleAdmin))
		{
			course.POST("/createcourse", ctrl.CourseController.CreateCourse)
			course.POST("/:courseId/videos", ctrl.CourseController.AddVideo)
			course.DELETE("/:courseId/videos/:videoId", ctrl.CourseController.RemoveVideo)
			course.GET("/:courseId/videos/:videoId/url", ctrl.CourseController.GetVideoURL)
			course.POST("/:courseId/attachments", ctrl.CourseController.AddAttachments)
		}

		// Instructor course browsing
		instructor := authenticated.Group("/instructor")
		instructor.Use(authMiddleware.RolesRequired(models.RoleInstructor, models.RoleAdmin))
		{
			instructor.GET("/courses", ctrl.InstructorController.ListCourses)
			instructor.GET("/courses/:courseId", ctrl.InstructorController.GetCourse)
		}

		// Student catalog, enrollment, content and rating
		student := authenticated.Group("/student")
		student.Use(authMiddleware.RolesRequired(models.RoleStudent, models.RoleAdmin))
		{
			student.GET("/enrolled", ctrl.StudentController.ListEnrolled)
			student.GET("/all", ctrl.StudentController.ListAll)
			student.POST("/enroll/:courseId", ctrl.StudentController.Enroll)
			student.GET("/getcourse/:courseId", ctrl.StudentController.GetCourseContent)
			student.POST("/course/:courseId/rate", ctrl.StudentController.RateCourse)
		}

		// Discussion, open to any authenticated identity
		comment := authenticated.Group("/comment")
		{
			comment.POST("/course/:courseId/video/:videoId/comment", ctrl.CommentController.PostComment)
			comment.POST("/:commentId/reply", ctrl.CommentController.PostReply)
			comment.GET("/course/:courseId/video/:videoId/comments", ctrl.CommentController.ListComments)
		}
	}
}
