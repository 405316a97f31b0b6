package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

type LogStats struct {
	TotalErrors       int
	LoginSuccess      int
	LoginFailures     int
	Registrations     int
	OrdersPlaced      int
	OrdersCancelled   int
	Transitions       map[string]int
	RefusedMoves      int
	CouponsRedeemed   int
	CouponsRejected   map[string]int
	PaymentsConfirmed int
	PaymentsFailed    int
	BadSignatures     int
	DuplicateWebhooks int
	Conversions       int
	Promotions        map[string]int
	RateLimited       int
	ErrorPatterns     map[string]int
}

var (
	transitionRe = regexp.MustCompile(`Order \d+ moved from \S+ to (\S+)`)
	promotionRe  = regexp.MustCompile(`User \d+ promoted to (\S+)`)
	rejectRe     = regexp.MustCompile(`Coupon \S+ rejected: (.+)$`)
	// strip the "timestamp LEVEL caller" prefix zap writes
	prefixRe = regexp.MustCompile(`^\S+ \S+\s+[A-Z]+\s+\S+\s+`)
)

func main() {
	logDir := flag.String("dir", "./logs", "directory holding the daily log files")
	day := flag.String("date", time.Now().Format("2006-01-02"), "day to analyze (YYYY-MM-DD)")
	flag.Parse()

	stats := &LogStats{
		Transitions:     make(map[string]int),
		CouponsRejected: make(map[string]int),
		Promotions:      make(map[string]int),
		ErrorPatterns:   make(map[string]int),
	}

	scanLog(filepath.Join(*logDir, fmt.Sprintf("error-%s.log", *day)), func(line string) {
		analyzeErrorLine(line, stats)
	})
	scanLog(filepath.Join(*logDir, fmt.Sprintf("info-%s.log", *day)), func(line string) {
		analyzeInfoLine(line, stats)
	})
	scanLog(filepath.Join(*logDir, fmt.Sprintf("debug-%s.log", *day)), func(line string) {
		if strings.Contains(line, " refused ") {
			stats.RefusedMoves++
		}
	})

	printReport(*day, stats)
}

func scanLog(logFile string, fn func(string)) {
	file, err := os.Open(logFile)
	if err != nil {
		fmt.Printf("Error opening log file %s: %v\n", logFile, err)
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		fn(scanner.Text())
	}
}

func analyzeErrorLine(line string, stats *LogStats) {
	stats.TotalErrors++

	switch {
	case strings.Contains(line, "Login attempt failed"):
		stats.LoginFailures++
	case strings.Contains(line, "Webhook signature mismatch"), strings.Contains(line, "Payment verification failed"):
		stats.BadSignatures++
	case strings.Contains(line, "Rate limit exceeded"):
		stats.RateLimited++
	}
	if m := rejectRe.FindStringSubmatch(line); m != nil {
		stats.CouponsRejected[m[1]]++
	}

	extractErrorPattern(line, stats)
}

func analyzeInfoLine(line string, stats *LogStats) {
	switch {
	case strings.Contains(line, "User logged in successfully"):
		stats.LoginSuccess++
	case strings.Contains(line, "Registered user"):
		stats.Registrations++
	case strings.Contains(line, "placed: subtotal"):
		stats.OrdersPlaced++
	case strings.Contains(line, "cancelled by user"):
		stats.OrdersCancelled++
	case strings.Contains(line, "redeemed"):
		stats.CouponsRedeemed++
	case strings.Contains(line, "Payment") && strings.Contains(line, "confirmed for order"):
		stats.PaymentsConfirmed++
	case strings.Contains(line, "Payment failed for order"):
		stats.PaymentsFailed++
	case strings.Contains(line, "Duplicate webhook event"):
		stats.DuplicateWebhooks++
	case strings.Contains(line, "Referral conversion"):
		stats.Conversions++
	}
	if m := transitionRe.FindStringSubmatch(line); m != nil {
		stats.Transitions[m[1]]++
	}
	if m := promotionRe.FindStringSubmatch(line); m != nil {
		stats.Promotions[m[1]]++
	}
}

func extractErrorPattern(line string, stats *LogStats) {
	msg := prefixRe.ReplaceAllString(line, "")
	// group by the message head, not the ids and causes that follow
	if i := strings.IndexAny(msg, ":0123456789"); i > 0 {
		msg = msg[:i]
	}
	msg = strings.TrimSpace(msg)
	if msg != "" {
		stats.ErrorPatterns[msg]++
	}
}

func printReport(day string, stats *LogStats) {
	fmt.Println("\n=== QuickBite Log Analysis Report ===")
	fmt.Println("Day:", day, "Generated:", time.Now().Format("2006-01-02 15:04:05"))

	fmt.Println("\n1. Accounts:")
	fmt.Printf("   Registrations: %d\n", stats.Registrations)
	fmt.Printf("   Successful Logins: %d\n", stats.LoginSuccess)
	fmt.Printf("   Failed Logins: %d\n", stats.LoginFailures)

	fmt.Println("\n2. Orders:")
	fmt.Printf("   Placed: %d\n", stats.OrdersPlaced)
	fmt.Printf("   Cancelled by customers: %d\n", stats.OrdersCancelled)
	fmt.Printf("   Refused status changes: %d\n", stats.RefusedMoves)
	fmt.Println("   Transitions by target status:")
	printTop(stats.Transitions, 10, "moves")

	fmt.Println("\n3. Coupons and Referrals:")
	fmt.Printf("   Coupons redeemed: %d\n", stats.CouponsRedeemed)
	fmt.Println("   Rejections by reason:")
	printTop(stats.CouponsRejected, 5, "rejections")
	fmt.Printf("   Referral conversions: %d\n", stats.Conversions)
	fmt.Println("   Tier promotions:")
	printTop(stats.Promotions, 4, "customers")

	fmt.Println("\n4. Payments:")
	fmt.Printf("   Confirmed: %d\n", stats.PaymentsConfirmed)
	fmt.Printf("   Failed: %d\n", stats.PaymentsFailed)
	fmt.Printf("   Bad signatures: %d\n", stats.BadSignatures)
	fmt.Printf("   Duplicate webhooks: %d\n", stats.DuplicateWebhooks)

	fmt.Println("\n5. Errors:")
	fmt.Printf("   Total Errors: %d\n", stats.TotalErrors)
	fmt.Printf("   Rate limited requests: %d\n", stats.RateLimited)
	fmt.Println("   Most Common Errors:")
	printTop(stats.ErrorPatterns, 5, "occurrences")
}

func printTop(counts map[string]int, limit int, unit string) {
	type entry struct {
		key   string
		count int
	}

	var entries []entry
	for k, n := range counts {
		entries = append(entries, entry{k, n})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].key < entries[j].key
	})

	for i, e := range entries {
		if i >= limit {
			break
		}
		fmt.Printf("     %s: %d %s\n", e.key, e.count, unit)
	}
}
