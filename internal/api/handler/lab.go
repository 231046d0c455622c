package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jon4hz/todolab/internal/compute"
)

func (h *Handler) Hello(c *gin.Context) {
	c.JSON(http.StatusOK, "Hello, World!")
}

func (h *Handler) GetStudent(c *gin.Context) {
	student, ok := h.students.Find(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}
	c.JSON(http.StatusOK, student)
}

// StudentStats counts students per preference and per programme.
func (h *Handler) StudentStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.students.Stats())
}

func parseOperands(c *gin.Context) (int64, int64, bool) {
	a, errA := strconv.ParseInt(c.Param("num1"), 10, 64)
	b, errB := strconv.ParseInt(c.Param("num2"), 10, 64)
	if errA != nil || errB != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both operands must be integers"})
		return 0, 0, false
	}
	return a, b, true
}

// Arithmetic builds a handler applying op to the two path operands.
func (h *Handler) Arithmetic(op func(a, b int64) (int64, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, b, ok := parseOperands(c)
		if !ok {
			return
		}
		result, err := op(a, b)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"result": result})
	}
}

func (h *Handler) Divide(c *gin.Context) {
	a, b, ok := parseOperands(c)
	if !ok {
		return
	}
	result, err := compute.Divide(a, b)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Division by zero is not allowed."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// PrimeSum returns the sum of the first n primes.
func (h *Handler) PrimeSum(c *gin.Context) {
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "n must be an integer"})
		return
	}

	var sum int64
	if h.cache != nil {
		var hit bool
		sum, hit, err = h.cache.PrimeSum(c.Request.Context(), n, compute.PrimeSum)
		if hit {
			c.Header("X-Cache", "HIT")
		}
	} else {
		sum, err = compute.PrimeSum(n)
	}
	if err != nil {
		if errors.Is(err, compute.ErrTooManyPrimes) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"prime_sum": sum})
}
