// Package stock validates requested cart lines against current stock
// and renders the per-line conflict report shown at checkout.
package stock

import (
	"context"
	"fmt"

	"github.com/modamarket/backend/pkg/db/models"
	"github.com/modamarket/backend/pkg/enums"
	pkgerrors "github.com/modamarket/backend/pkg/errors"
	"github.com/modamarket/backend/pkg/logger"
)

const unknownProductName = "알 수 없는 상품"

type sizeLister interface {
	ListSizesForProducts(ctx context.Context, productIDs []int64) ([]models.ProductSize, error)
	ListProducts(ctx context.Context, productIDs []int64) ([]models.Product, error)
}

// CheckLine is one requested line entering reconciliation.
type CheckLine struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Size      int   `json:"size" validate:"gte=0"`
	Quantity  int   `json:"quantity" validate:"required,gte=1"`
}

// Issue describes one line that cannot be fulfilled as requested.
type Issue struct {
	ProductID   int64                `json:"productId"`
	Size        int                  `json:"size"`
	IssueType   enums.StockIssueType `json:"issueType"`
	Stock       int                  `json:"stock"`
	ProductName string               `json:"productName"`
}

// Reconciler checks requested lines against the size/stock table. It
// only reports; quantities are never adjusted on behalf of the caller.
type Reconciler struct {
	repo sizeLister
	logg *logger.Logger
}

// NewReconciler wires the reconciler.
func NewReconciler(repo sizeLister, logg *logger.Logger) (*Reconciler, error) {
	if repo == nil {
		return nil, fmt.Errorf("size repository required")
	}
	return &Reconciler{repo: repo, logg: logg}, nil
}

// Check validates the requested lines. A nil issue slice means every
// line can be fulfilled. Lines with no matching (product, size) row
// report UNKNOWN_PRODUCT; zero stock reports OUT_OF_STOCK; short stock
// reports NOT_ENOUGH_STOCK with the remaining quantity.
func (r *Reconciler) Check(ctx context.Context, lines []CheckLine) ([]Issue, error) {
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one line is required")
	}

	ids := make([]int64, 0, len(lines))
	seen := make(map[int64]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		ids = append(ids, line.ProductID)
	}

	sizes, err := r.repo.ListSizesForProducts(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock rows")
	}
	prods, err := r.repo.ListProducts(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}

	stockBySizeKey := make(map[sizeKey]int, len(sizes))
	for _, row := range sizes {
		stockBySizeKey[sizeKey{row.ProductID, row.Size}] = row.StockQuantity
	}
	nameByProduct := make(map[int64]string, len(prods))
	for _, p := range prods {
		nameByProduct[p.ID] = p.Name
	}

	var issues []Issue
	for _, line := range lines {
		stock, found := stockBySizeKey[sizeKey{line.ProductID, line.Size}]
		switch {
		case !found:
			issues = append(issues, Issue{
				ProductID:   line.ProductID,
				Size:        line.Size,
				IssueType:   enums.StockIssueUnknownProduct,
				Stock:       0,
				ProductName: unknownProductName,
			})
		case stock == 0:
			issues = append(issues, Issue{
				ProductID:   line.ProductID,
				Size:        line.Size,
				IssueType:   enums.StockIssueOutOfStock,
				Stock:       0,
				ProductName: nameByProduct[line.ProductID],
			})
		case stock < line.Quantity:
			issues = append(issues, Issue{
				ProductID:   line.ProductID,
				Size:        line.Size,
				IssueType:   enums.StockIssueNotEnoughStock,
				Stock:       stock,
				ProductName: nameByProduct[line.ProductID],
			})
		}
	}
	return issues, nil
}

type sizeKey struct {
	productID int64
	size      int
}

// RenderMessage formats the shopper-facing message for an issue.
// Unrecognized issue types fall back to a generic message so a newer
// server cannot break an older report consumer.
func RenderMessage(issue Issue) string {
	switch issue.IssueType {
	case enums.StockIssueOutOfStock:
		return "품절된 상품입니다."
	case enums.StockIssueNotEnoughStock:
		return fmt.Sprintf("재고 부족 (현재 %d개)", issue.Stock)
	case enums.StockIssueUnknownProduct:
		return "상품 정보를 찾을 수 없습니다."
	default:
		return "알 수 없는 문제"
	}
}

// ReportLine is one rendered conflict entry.
type ReportLine struct {
	ProductID   int64  `json:"productId"`
	Size        int    `json:"size"`
	ProductName string `json:"productName"`
	Message     string `json:"message"`
}

// BuildReport renders issues against the submitted lines. Issues that
// reference a line the caller never submitted are logged and skipped
// rather than failing the whole report.
func (r *Reconciler) BuildReport(ctx context.Context, submitted []CheckLine, issues []Issue) []ReportLine {
	known := make(map[sizeKey]struct{}, len(submitted))
	for _, line := range submitted {
		known[sizeKey{line.ProductID, line.Size}] = struct{}{}
	}

	report := make([]ReportLine, 0, len(issues))
	for _, issue := range issues {
		if _, ok := known[sizeKey{issue.ProductID, issue.Size}]; !ok {
			if r.logg != nil {
				ctx := r.logg.WithFields(ctx, map[string]any{
					"product_id": issue.ProductID,
					"size":       issue.Size,
				})
				r.logg.Warn(ctx, "stock issue for unsubmitted line, skipping")
			}
			continue
		}
		report = append(report, ReportLine{
			ProductID:   issue.ProductID,
			Size:        issue.Size,
			ProductName: issue.ProductName,
			Message:     RenderMessage(issue),
		})
	}
	return report
}
