package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

func Health(c *gin.Context) {
	cpuUsage, err := cpu.Percent(200*time.Millisecond, false)
	if err != nil || len(cpuUsage) == 0 {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}
	memInfo, err := mem.VirtualMemory()
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":              "ok",
		"cpu_usage":           cpuUsage[0],
		"memory_total":        memInfo.Total,
		"memory_used":         memInfo.Used,
		"memory_used_percent": memInfo.UsedPercent,
	})
}
