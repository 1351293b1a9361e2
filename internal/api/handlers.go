package api

import (
	"encoding/hex"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nivschuman/ChainDemocracy/internal/address"
	"github.com/nivschuman/ChainDemocracy/internal/models"
	"github.com/nivschuman/ChainDemocracy/internal/query"
)

type receiptResponse struct {
	TransactionId string `json:"transaction_id"`
	Height        int64  `json:"height"`
	Payer         string `json:"payer"`
	Instruction   string `json:"instruction"`
	Code          uint32 `json:"code"`
	Log           string `json:"log,omitempty"`
}

func toReceiptResponse(receipt *models.TransactionReceipt) receiptResponse {
	return receiptResponse{
		TransactionId: hex.EncodeToString(receipt.TransactionId),
		Height:        receipt.Height,
		Payer:         receipt.Payer.String(),
		Instruction:   receipt.Instruction,
		Code:          receipt.Code,
		Log:           receipt.Log,
	}
}

func (server *Server) health(c *gin.Context) {
	response := gin.H{"status": "ok"}

	if counter, ok := server.records.(recordCounter); ok {
		count, err := counter.CountRecords(c.Request.Context())
		if err != nil {
			server.log.Errorf("Health check failed: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		response["records"] = count
	}

	c.JSON(http.StatusOK, response)
}

func (server *Server) getElection(c *gin.Context) {
	server.observe("elections")

	view, err := server.queries.Election(c.Request.Context(), c.Param("name"))
	if err != nil {
		server.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (server *Server) getCandidates(c *gin.Context) {
	server.observe("candidates")

	views, err := server.queries.Candidates(c.Request.Context(), c.Param("name"))
	if err != nil {
		server.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"candidates": views})
}

func (server *Server) getResults(c *gin.Context) {
	server.observe("results")

	view, err := server.queries.Result(c.Request.Context(), c.Param("name"))
	if err != nil {
		server.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (server *Server) getRecord(c *gin.Context) {
	server.observe("records")

	addr, err := address.FromHex(c.Param("address"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid address"})
		return
	}

	view, err := server.queries.Record(c.Request.Context(), addr)
	if err != nil {
		server.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// listRecords pages through the records of one owner, the election program
// unless ?owner= names another.
func (server *Server) listRecords(c *gin.Context) {
	server.observe("records")

	owner := server.queries.ProgramId()
	if raw := c.Query("owner"); raw != "" {
		var err error
		if owner, err = address.FromHex(raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid owner"})
			return
		}
	}

	page, pageSize, ok := pagination(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pagination"})
		return
	}

	lister := server.records.(recordLister)
	records, total, err := lister.GetRecordsByOwnerPaged(c.Request.Context(), owner, (page-1)*pageSize, pageSize)
	if err != nil {
		server.fail(c, err)
		return
	}

	items := make([]*query.RecordView, 0, len(records))
	for _, record := range records {
		items = append(items, query.NewRecordView(record))
	}

	c.JSON(http.StatusOK, gin.H{
		"owner":     owner.String(),
		"page":      page,
		"page_size": pageSize,
		"total":     total,
		"records":   items,
	})
}

func (server *Server) getReceipt(c *gin.Context) {
	server.observe("receipts")

	id, err := hex.DecodeString(c.Param("id"))
	if err != nil || len(id) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction id"})
		return
	}

	receipt, err := server.receipts.GetReceipt(c.Request.Context(), id)
	if err != nil {
		server.fail(c, err)
		return
	}
	if receipt == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Receipt not found"})
		return
	}
	c.JSON(http.StatusOK, toReceiptResponse(receipt))
}

func (server *Server) getPayerReceipts(c *gin.Context) {
	server.observe("payer_receipts")

	payer, err := address.FromHex(c.Param("address"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid address"})
		return
	}

	page, pageSize, ok := pagination(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pagination"})
		return
	}

	receipts, total, err := server.receipts.GetReceiptsByPayerPaged(c.Request.Context(), payer, (page-1)*pageSize, pageSize)
	if err != nil {
		server.fail(c, err)
		return
	}

	items := make([]receiptResponse, 0, len(receipts))
	for _, receipt := range receipts {
		items = append(items, toReceiptResponse(receipt))
	}

	c.JSON(http.StatusOK, gin.H{
		"page":      page,
		"page_size": pageSize,
		"total":     total,
		"receipts":  items,
	})
}

func pagination(c *gin.Context) (int, int, bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 0, 0, false
	}

	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if err != nil || pageSize < 1 {
		return 0, 0, false
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	return page, pageSize, true
}

