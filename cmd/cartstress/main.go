package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/adapter/handler"
	"github.com/rl1809/storefront/internal/logging"
)

const (
	defaultBaseURL = "http://localhost:8080"
	totalRequests  = 200
	readyTimeout   = 30 * time.Second
)

func main() {
	logger, err := logging.New(logging.Options{Level: "info"})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	baseURL := os.Getenv("STOREFRONT_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client := &http.Client{Timeout: 10 * time.Second}

	// Wait for the catalog
	view, err := waitReady(client, baseURL)
	if err != nil {
		logger.Fatal("storefront not ready", zap.Error(err))
	}
	if len(view.Products) == 0 {
		logger.Fatal("catalog is empty, nothing to add")
	}
	productID := view.Products[0].ID

	before, err := quantityOf(client, baseURL, productID)
	if err != nil {
		logger.Fatal("failed to read cart", zap.Error(err))
	}

	// Counters
	var successCount atomic.Int32
	var failCount atomic.Int32

	// Spawn concurrent adds of the same product
	var wg sync.WaitGroup
	start := time.Now()

	body := []byte(fmt.Sprintf(`{"productId":%d}`, productID))
	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			resp, err := client.Post(baseURL+"/api/cart/items", "application/json", bytes.NewReader(body))
			if err != nil {
				failCount.Add(1)
				return
			}
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()

			if resp.StatusCode == http.StatusOK {
				successCount.Add(1)
			} else {
				failCount.Add(1)
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	cart, err := getCart(client, baseURL)
	if err != nil {
		logger.Fatal("failed to read cart", zap.Error(err))
	}
	lines, after := 0, 0
	for _, l := range cart.Lines {
		if l.ID == productID {
			lines++
			after = l.Quantity
		}
	}

	// Results
	success := successCount.Load()
	fail := failCount.Load()

	fmt.Println("========== CART STRESS RESULTS ==========")
	fmt.Printf("Product:          %d\n", productID)
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Failed:           %d\n", fail)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Printf("Quantity:         %d -> %d\n", before, after)
	fmt.Printf("Cart Total:       Rs. %s\n", cart.Total)
	fmt.Println("==========================================")

	// Assertions
	if lines == 1 {
		fmt.Println("PASS: Exactly one cart line for the product")
	} else {
		fmt.Printf("FAIL: Expected 1 line for product %d, got %d\n", productID, lines)
	}

	if after-before == int(success) {
		fmt.Printf("PASS: Quantity grew by %d\n", success)
	} else {
		fmt.Printf("FAIL: Expected quantity to grow by %d, grew by %d\n", success, after-before)
	}
}

func waitReady(client *http.Client, baseURL string) (handler.StorefrontResponse, error) {
	deadline := time.Now().Add(readyTimeout)
	for {
		var view handler.StorefrontResponse
		err := getJSON(client, baseURL+"/api/storefront", &view)
		if err == nil && !view.Loading {
			return view, nil
		}
		if time.Now().After(deadline) {
			if err == nil {
				err = fmt.Errorf("still loading after %v", readyTimeout)
			}
			return view, err
		}
		time.Sleep(200 * time.Millisecond)
	}
}

func getCart(client *http.Client, baseURL string) (handler.CartResponse, error) {
	var cart handler.CartResponse
	err := getJSON(client, baseURL+"/api/cart", &cart)
	return cart, err
}

func quantityOf(client *http.Client, baseURL string, productID int) (int, error) {
	cart, err := getCart(client, baseURL)
	if err != nil {
		return 0, err
	}
	for _, l := range cart.Lines {
		if l.ID == productID {
			return l.Quantity, nil
		}
	}
	return 0, nil
}

func getJSON(client *http.Client, url string, v interface{}) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return sonic.Unmarshal(data, v)
}
