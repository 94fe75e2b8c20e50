package indices

import (
	"fieldjobs/bizerror"
	"fieldjobs/session"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	PathJobSearch = "/v1/job-search"
)

func RegisterJobSearchRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathJobSearch, middleWares...)
	g.GET("", handleSearchJobs)
}

func handleSearchJobs(c *gin.Context) {
	query := JobSearchQuery{}
	if err := c.ShouldBindQuery(&query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	docs, err := SearchJobsFunc(query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, docs)
}
