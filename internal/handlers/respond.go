package handlers

import "github.com/gin-gonic/gin"

// Every endpoint answers with the same envelope:
// {status, message, error, data}, plus results on list responses.
// status is "success", "fail" (4xx) or "error" (5xx).

func respondSuccess(c *gin.Context, code int, message string, data any) {
	c.JSON(code, gin.H{
		"status":  "success",
		"message": message,
		"error":   nil,
		"data":    data,
	})
}

func respondList(c *gin.Context, message string, results int, data any) {
	c.JSON(200, gin.H{
		"status":  "success",
		"message": message,
		"error":   nil,
		"results": results,
		"data":    data,
	})
}

func respondFail(c *gin.Context, code int, errMsg string) {
	c.JSON(code, gin.H{
		"status":  "fail",
		"message": nil,
		"error":   errMsg,
	})
}

func respondError(c *gin.Context, errMsg string) {
	c.JSON(500, gin.H{
		"status":  "error",
		"message": nil,
		"error":   errMsg,
	})
}
