package ebay

import (
	"strconv"
	"strings"

	"github.com/resale/backend/internal/domain"
)

// findingResponse is the JSON envelope of findItemsIneBayStores
type findingResponse struct {
	FindItemsIneBayStoresResponse []findingResult `json:"findItemsIneBayStoresResponse"`
}

type findingResult struct {
	Ack              []string              `json:"ack"`
	ErrorMessage     []findingErrorMessage `json:"errorMessage,omitempty"`
	SearchResult     []findingSearchResult `json:"searchResult,omitempty"`
	PaginationOutput []findingPagination   `json:"paginationOutput,omitempty"`
}

type findingErrorMessage struct {
	Error []struct {
		ErrorID []string `json:"errorId"`
		Message []string `json:"message"`
	} `json:"error"`
}

type findingSearchResult struct {
	Count string                   `json:"@count"`
	Item  []domain.EbayFindingItem `json:"item"`
}

type findingPagination struct {
	PageNumber []string `json:"pageNumber"`
	TotalPages []string `json:"totalPages"`
}

func (r *findingResponse) result() *findingResult {
	if len(r.FindItemsIneBayStoresResponse) == 0 {
		return nil
	}
	return &r.FindItemsIneBayStoresResponse[0]
}

// succeeded treats Warning like Success; eBay returns results with warnings
func (r *findingResult) succeeded() bool {
	if len(r.Ack) == 0 {
		return false
	}
	return r.Ack[0] == "Success" || r.Ack[0] == "Warning"
}

func (r *findingResult) items() []domain.EbayFindingItem {
	var items []domain.EbayFindingItem
	for _, sr := range r.SearchResult {
		items = append(items, sr.Item...)
	}
	return items
}

func (r *findingResult) totalPages() int {
	if len(r.PaginationOutput) == 0 || len(r.PaginationOutput[0].TotalPages) == 0 {
		return 0
	}
	total, err := strconv.Atoi(r.PaginationOutput[0].TotalPages[0])
	if err != nil {
		return 0
	}
	return total
}

func (r *findingResult) errorMessage() string {
	var msgs []string
	for _, em := range r.ErrorMessage {
		for _, e := range em.Error {
			msgs = append(msgs, strings.Join(e.Message, " "))
		}
	}
	if len(msgs) == 0 {
		return "findItemsIneBayStores failed"
	}
	return strings.Join(msgs, "; ")
}

// shoppingResponse is the JSON envelope of GetMultipleItems
type shoppingResponse struct {
	Ack    string            `json:"Ack"`
	Errors []shoppingError   `json:"Errors,omitempty"`
	Item   []domain.EbayItem `json:"Item"`
}

type shoppingError struct {
	ShortMessage string `json:"ShortMessage"`
	LongMessage  string `json:"LongMessage"`
	ErrorCode    string `json:"ErrorCode"`
	SeverityCode string `json:"SeverityCode"`
}

func (r *shoppingResponse) hasErrorCode(code string) bool {
	for _, e := range r.Errors {
		if e.ErrorCode == code {
			return true
		}
	}
	return false
}

func (r *shoppingResponse) errorMessage() string {
	var msgs []string
	for _, e := range r.Errors {
		msg := e.LongMessage
		if msg == "" {
			msg = e.ShortMessage
		}
		msgs = append(msgs, e.ErrorCode+" "+msg)
	}
	if len(msgs) == 0 {
		return "GetMultipleItems failed"
	}
	return strings.Join(msgs, "; ")
}
