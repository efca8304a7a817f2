package routes

import (
	"Gin_postgres_redis_book_lending/app"
	"Gin_postgres_redis_book_lending/controllers"
	"time"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	// 控制器与依赖
	s := controllers.GetSrv(a)
	uc := controllers.GetUserController(s)
	bookCtl := controllers.NewBookController(s)
	reviewCtl := controllers.NewReviewController(s)
	catalogCtl := controllers.NewCatalogController(s)

	// 复用的中间件
	authMW := app.AuthRequired(a.Tokens, s.Repo, a.Config)
	adminMW := app.AdminOnly()
	seenMW := app.TouchLastSeen(s.Repo, a.RDB, 5*time.Minute)

	api := r.Group("/api")

	// ------------------------------
	// 注册 / 登录（公开）
	// ------------------------------
	{
		api.POST("/register", uc.Register)
		api.POST("/login", uc.Login)
		api.POST("/login/refresh", uc.RefreshToken)
	}

	// ------------------------------
	// 借还 / 推荐 / 评价（需登录）
	// ------------------------------
	user := api.Group("", authMW, seenMW)
	{
		user.GET("/books", bookCtl.ListBooks) // ?author=&genre=&is_available=
		user.POST("/books/:id/borrow", bookCtl.Borrow)
		user.POST("/books/:id/return", bookCtl.Return)
		user.GET("/my-borrowed-books", bookCtl.MyBorrowedBooks)
		user.GET("/recommendations", bookCtl.Recommendations)

		user.GET("/books/:id/reviews", reviewCtl.ListReviews)
		user.POST("/books/:id/reviews/create", reviewCtl.CreateReview)
	}

	// ------------------------------
	// 目录管理（仅管理员）
	// ------------------------------
	admin := api.Group("/admin", authMW, adminMW)
	{
		admin.POST("/authors", catalogCtl.CreateAuthor)
		admin.POST("/genres", catalogCtl.CreateGenre)
		admin.POST("/books", catalogCtl.CreateBook)
		admin.DELETE("/authors/:id", catalogCtl.DeleteAuthor)
		admin.DELETE("/genres/:id", catalogCtl.DeleteGenre)
	}
}
