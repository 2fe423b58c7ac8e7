package utils

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

func parseIDParam(ctx *gin.Context, name string) (uint, error) {
	raw := ctx.Param(name)

	if raw == "" {
		return 0, fmt.Errorf("missing %s", name)
	}

	id, err := strconv.ParseUint(raw, 10, 32)

	if err != nil {
		return 0, fmt.Errorf("invalid %s", name)
	}

	return uint(id), nil
}

func GetProjectID(ctx *gin.Context) (uint, error) {
	return parseIDParam(ctx, "project_id")
}

func GetWorkflowID(ctx *gin.Context) (uint, error) {
	return parseIDParam(ctx, "workflow_id")
}

func GetReportID(ctx *gin.Context) (uint, error) {
	return parseIDParam(ctx, "report_id")
}

func GetTeamID(ctx *gin.Context) (uint, error) {
	return parseIDParam(ctx, "team_id")
}

func GetMemberID(ctx *gin.Context) (uint, error) {
	return parseIDParam(ctx, "member_id")
}

func GetPostID(ctx *gin.Context) (uint, error) {
	return parseIDParam(ctx, "post_id")
}
