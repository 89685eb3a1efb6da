package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/novelhelper/backend/config"
	"github.com/novelhelper/backend/internal/handler"
)

func Setup(
	cfg *config.Config,
	docHandler *handler.DocumentHandler,
	branchHandler *handler.BranchHandler,
	versionHandler *handler.VersionHandler,
	sectionHandler *handler.SectionHandler,
	syncHandler *handler.SyncHandler,
	configHandler *handler.ConfigHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	api := r.Group("/api")
	{
		docs := api.Group("/documents")
		{
			docs.POST("", docHandler.Create)
			docs.GET("", docHandler.List)
			docs.GET("/:id", docHandler.Get)
			docs.PUT("/:id", docHandler.Update)
			docs.DELETE("/:id", docHandler.Delete)
			docs.GET("/:id/branches", docHandler.GetBranches)
			docs.GET("/:id/main-branch", docHandler.GetMainBranch)
		}

		branches := api.Group("/branches")
		{
			branches.POST("", branchHandler.Create)
			branches.GET("/:id", branchHandler.Get)
			branches.PUT("/:id", branchHandler.Update)
			branches.DELETE("/:id", branchHandler.Delete)
			branches.GET("/:id/versions", branchHandler.GetVersions)
			branches.GET("/:id/versions/latest", branchHandler.GetLatestVersion)
		}

		versions := api.Group("/versions")
		{
			versions.POST("", versionHandler.Create)
			versions.GET("/:id", versionHandler.Get)
			versions.PUT("/:id", versionHandler.Update)
			versions.DELETE("/:id", versionHandler.Delete)
			versions.GET("/:id/diff", versionHandler.GetDiff)
			versions.GET("/:id/sections", versionHandler.GetSections)
		}

		sections := api.Group("/sections")
		{
			sections.POST("", sectionHandler.Create)
			sections.GET("/:id", sectionHandler.Get)
			sections.PUT("/:id", sectionHandler.Update)
			sections.DELETE("/:id", sectionHandler.Delete)
		}

		syncHandler.RegisterRoutes(api)

		api.GET("/config", configHandler.Get)
		api.PUT("/config", configHandler.Update)
	}

	return r
}
