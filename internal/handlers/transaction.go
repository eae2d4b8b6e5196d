package handlers

import (
	"errors"
	"log"
	"strconv"
	"time"

	"vigil/internal/models"
	"vigil/internal/repositories"
	"vigil/internal/services/risk"
	"vigil/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	defaultPageSize     = 20
	maxTransactionLimit = 100 // Maximum allowed transactions per page
)

type TransactionHandler struct {
	riskService risk.Service
	txRepo      repositories.TransactionRepository
}

func NewTransactionHandler(riskService risk.Service, txRepo repositories.TransactionRepository) *TransactionHandler {
	return &TransactionHandler{
		riskService: riskService,
		txRepo:      txRepo,
	}
}

// Submit ingests a new transaction and runs it through the scoring
// pipeline synchronously. The response carries the score and status.
func (h *TransactionHandler) Submit(c *fiber.Ctx) error {
	var input struct {
		AccountID        string                 `json:"account_id"`
		Amount           float64                `json:"amount"`
		Currency         string                 `json:"currency"`
		PaymentMethod    string                 `json:"payment_method"`
		Merchant         string                 `json:"merchant"`
		MerchantCategory string                 `json:"merchant_category"`
		Country          string                 `json:"country"`
		City             string                 `json:"city"`
		IPAddress        string                 `json:"ip_address"`
		DeviceID         string                 `json:"device_id"`
		DeviceOS         string                 `json:"device_os"`
		DeviceBrowser    string                 `json:"device_browser"`
		EmulatorFlag     bool                   `json:"emulator_flag"`
		ProxyFlag        bool                   `json:"proxy_flag"`
		FingerprintFlag  bool                   `json:"fingerprint_flag"`
		Timestamp        time.Time              `json:"timestamp"`
		Metadata         map[string]interface{} `json:"metadata"`
	}

	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	tx := &models.Transaction{
		AccountID:        input.AccountID,
		Amount:           input.Amount,
		Currency:         input.Currency,
		PaymentMethod:    input.PaymentMethod,
		Merchant:         input.Merchant,
		MerchantCategory: input.MerchantCategory,
		Country:          input.Country,
		City:             input.City,
		IPAddress:        input.IPAddress,
		DeviceID:         input.DeviceID,
		DeviceOS:         input.DeviceOS,
		DeviceBrowser:    input.DeviceBrowser,
		EmulatorFlag:     input.EmulatorFlag,
		ProxyFlag:        input.ProxyFlag,
		FingerprintFlag:  input.FingerprintFlag,
		Timestamp:        input.Timestamp,
		Metadata:         input.Metadata,
	}

	scored, err := h.riskService.Submit(c.Context(), tx)
	if err != nil {
		if errors.Is(err, risk.ErrInvalidTransaction) {
			return response.BadRequest(c, err.Error())
		}
		log.Printf("Transaction submission failed: %v", err)
		return response.ServerError(c, "Failed to process transaction")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Transaction processed",
		"data":    scored,
	})
}

func (h *TransactionHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid transaction id")
	}

	tx, err := h.txRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Transaction not found")
		}
		log.Printf("Transaction lookup failed: %v", err)
		return response.ServerError(c, "Failed to retrieve transaction")
	}

	return response.Success(c, "Transaction retrieved", tx)
}

func (h *TransactionHandler) List(c *fiber.Ctx) error {
	limit, offset := pagination(c)

	txs, total, err := h.txRepo.List(c.Context(), limit, offset)
	if err != nil {
		log.Printf("Transaction list failed: %v", err)
		return response.ServerError(c, "Failed to retrieve transactions")
	}

	return c.JSON(fiber.Map{
		"data":  txs,
		"total": total,
	})
}

func (h *TransactionHandler) ListByAccount(c *fiber.Ctx) error {
	accountID := c.Params("accountID")
	if accountID == "" {
		return response.BadRequest(c, "Account id is required")
	}
	limit, offset := pagination(c)

	txs, err := h.txRepo.ListByAccount(c.Context(), accountID, limit, offset)
	if err != nil {
		log.Printf("Account transaction list failed: %v", err)
		return response.ServerError(c, "Failed to retrieve transactions")
	}

	return response.Success(c, "Transactions retrieved", txs)
}

// pagination reads page/limit query params with sane caps.
func pagination(c *fiber.Ctx) (limit, offset int) {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ = strconv.Atoi(c.Query("limit", strconv.Itoa(defaultPageSize)))

	if limit > maxTransactionLimit {
		limit = maxTransactionLimit
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if page < 1 {
		page = 1
	}
	return limit, (page - 1) * limit
}
