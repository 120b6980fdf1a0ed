package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/nicholaswilven/book-recsys/core"
)

// 年龄与年份的可信区间。区间外的值不可靠，按缺失处理/整行丢弃。
const (
	minReliableAge = 10
	maxReliableAge = 90
	minBookYear    = 1901
	maxBookYear    = 2023
)

// LoadBooks 加载并清洗图书表。
//
// 清洗步骤：
//   - 按表头取 ISBN / Book-Title / Book-Author / Year-Of-Publication / Publisher / Image-URL-L
//   - 年份列是非数字时尝试修复：标题里混入了 `\";` 分隔符导致整行右移一列，
//     按分隔符拆回标题与作者（Book-Crossing 数据集的已知脏行形态）
//   - 丢弃年份在 [1901,2023] 之外的行
func LoadBooks(path string) ([]core.Book, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	col, err := columnIndex(header, "ISBN", "Book-Title", "Book-Author", "Year-Of-Publication", "Publisher", "Image-URL-L")
	if err != nil {
		return nil, fmt.Errorf("books: %w", err)
	}

	books := make([]core.Book, 0, len(rows))
	for _, rec := range rows {
		isbn := rec[col["ISBN"]]
		title := rec[col["Book-Title"]]
		author := rec[col["Book-Author"]]
		yearRaw := rec[col["Year-Of-Publication"]]
		pub := rec[col["Publisher"]]
		img := rec[col["Image-URL-L"]]

		year, err := strconv.Atoi(strings.TrimSpace(yearRaw))
		if err != nil {
			// 列右移一列的脏行：年份位置落着作者，出版社位置落着年份
			parts := strings.SplitN(title, "\\\";", 2)
			if len(parts) != 2 {
				continue
			}
			pub = yearRaw
			year, err = strconv.Atoi(strings.TrimSpace(author))
			if err != nil {
				continue
			}
			author = strings.ReplaceAll(parts[1], "\"", "")
			title = parts[0]
		}
		if year < minBookYear || year > maxBookYear {
			continue
		}

		books = append(books, core.Book{
			ISBN:      isbn,
			Title:     title,
			Author:    author,
			Year:      year,
			Publisher: pub,
			ImageURL:  img,
		})
	}
	return books, nil
}

// LoadRatings 加载并清洗评分表：0 分表示"没有意见"，直接丢弃。
func LoadRatings(path string) ([]core.Rating, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	col, err := columnIndex(header, "User-ID", "ISBN", "Book-Rating")
	if err != nil {
		return nil, fmt.Errorf("ratings: %w", err)
	}

	ratings := make([]core.Rating, 0, len(rows))
	for _, rec := range rows {
		userID, err := strconv.ParseInt(strings.TrimSpace(rec[col["User-ID"]]), 10, 64)
		if err != nil {
			continue
		}
		score, err := strconv.Atoi(strings.TrimSpace(rec[col["Book-Rating"]]))
		if err != nil || score <= 0 {
			continue
		}
		ratings = append(ratings, core.Rating{
			UserID: userID,
			ISBN:   rec[col["ISBN"]],
			Score:  score,
		})
	}
	return ratings, nil
}

// LoadUsers 加载并清洗用户表：年龄缺失或落在 [10,90] 之外时置 0（未知）。
func LoadUsers(path string) ([]core.User, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	col, err := columnIndex(header, "User-ID", "Location", "Age")
	if err != nil {
		return nil, fmt.Errorf("users: %w", err)
	}

	users := make([]core.User, 0, len(rows))
	for _, rec := range rows {
		id, err := strconv.ParseInt(strings.TrimSpace(rec[col["User-ID"]]), 10, 64)
		if err != nil {
			continue
		}
		age := 0
		if raw := strings.TrimSpace(rec[col["Age"]]); raw != "" {
			if a, err := strconv.ParseFloat(raw, 64); err == nil {
				n := int(a)
				if n >= minReliableAge && n <= maxReliableAge {
					age = n
				}
			}
		}
		users = append(users, core.User{
			ID:       id,
			Age:      age,
			Location: rec[col["Location"]],
		})
	}
	return users, nil
}

// LoadCSV 一次加载三张表并组装数据集。
func LoadCSV(booksPath, ratingsPath, usersPath string) (*Dataset, error) {
	books, err := LoadBooks(booksPath)
	if err != nil {
		return nil, err
	}
	ratings, err := LoadRatings(ratingsPath)
	if err != nil {
		return nil, err
	}
	users, err := LoadUsers(usersPath)
	if err != nil {
		return nil, err
	}
	return New(books, ratings, users), nil
}

func readCSV(path string) ([][]string, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // 坏行直接跳过，脏数据不值得让整次加载失败
		}
		if len(rec) < len(header) {
			continue
		}
		rows = append(rows, rec)
	}
	return rows, header, nil
}

func columnIndex(header []string, names ...string) (map[string]int, error) {
	col := make(map[string]int, len(names))
	for _, name := range names {
		found := false
		for i, h := range header {
			if strings.TrimSpace(h) == name {
				col[name] = i
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}
	return col, nil
}
