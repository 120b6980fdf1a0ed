package cf

import (
	"context"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// similarityMatrix 计算行向量两两相似度，返回 n × n 对称矩阵。
//
// 两种数值语义：
//   - cosine: 直接对原始行向量做余弦相似度，自相似恒为 1
//   - pearson: 先按行均值中心化，再做线性相关；零方差行（被所有人打同一分，
//     或只有一个评分者）的相关系数无定义，显式取 0（"没有信号"），对角线也一样
//
// 按行分块并发计算上三角后镜像到下三角：各 worker 写入的行互不相交，
// 结果与 worker 数量无关。
func similarityMatrix(ctx context.Context, rows [][]float64, method string) ([][]float64, error) {
	n := len(rows)

	vecs := rows
	if method == MethodPearson {
		vecs = centerRows(rows)
	}

	norms := make([]float64, n)
	for i, v := range vecs {
		norms[i] = math.Sqrt(dot(v, v))
	}

	sim := make([][]float64, n)
	for i := range sim {
		sim[i] = make([]float64, n)
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	eg, _ := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		eg.Go(func() error {
			for i := lo; i < hi; i++ {
				// 对角线：有信号恒为 1，零方差/零范数取 0
				if norms[i] > 0 {
					sim[i][i] = 1
				}
				for j := i + 1; j < n; j++ {
					var s float64
					if norms[i] > 0 && norms[j] > 0 {
						s = dot(vecs[i], vecs[j]) / (norms[i] * norms[j])
					}
					sim[i][j] = s
					sim[j][i] = s
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return sim, nil
}

// centerRows 按行均值中心化（均值跨全部列，包括填 0 的缺失位，
// 与透视表按行 subtract mean 的语义一致）。
func centerRows(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		if len(row) == 0 {
			out[i] = nil
			continue
		}
		var sum float64
		for _, v := range row {
			sum += v
		}
		mean := sum / float64(len(row))
		centered := make([]float64, len(row))
		for j, v := range row {
			centered[j] = v - mean
		}
		out[i] = centered
	}
	return out
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
