package expiry

import (
	"time"

	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/model"
)

// Bucket 合同分类桶
type Bucket string

const (
	BucketValid   Bucket = "valid"   // 剩余 > 阈值天数
	BucketDue     Bucket = "due"     // 0 < 剩余 ≤ 阈值天数
	BucketExpired Bucket = "expired" // 剩余 ≤ 0（合同 status 仍可能是 active）
)

// ContractBuckets 船级合同三桶计数（互斥；无在职合同的船员不计入任何桶）
type ContractBuckets struct {
	Valid   int `json:"valid"`
	Due     int `json:"due"`
	Expired int `json:"expired"`
}

// ClassifyContract 按合同结束日期对单份在职合同分桶
func ClassifyContract(c *model.Contract, now time.Time, thresholdDays int) (Bucket, Result) {
	end := c.EndDate
	res := Classify(&end, now, thresholdDays)
	switch res.Status {
	case StatusExpired:
		return BucketExpired, res
	case StatusExpiringSoon:
		return BucketDue, res
	default:
		return BucketValid, res
	}
}

// BucketContracts 对一批在职合同做三桶计数。
//
// 调用方传入每名船员的在职合同（无在职合同传 nil），nil 项直接跳过 —
// 未签约船员不算 expired，这是最容易实现错的边界。
// 三桶之和恒等于持有在职合同的船员数。
func BucketContracts(contracts []*model.Contract, now time.Time, thresholdDays int) ContractBuckets {
	var b ContractBuckets
	for _, c := range contracts {
		if c == nil || c.Status != model.ContractStatusActive {
			continue
		}
		bucket, _ := ClassifyContract(c, now, thresholdDays)
		switch bucket {
		case BucketValid:
			b.Valid++
		case BucketDue:
			b.Due++
		case BucketExpired:
			b.Expired++
		}
	}
	return b
}

// FilterContracts 返回落在指定桶内的合同（drilldown 用）
func FilterContracts(contracts []*model.Contract, now time.Time, thresholdDays int, want Bucket) []*model.Contract {
	var out []*model.Contract
	for _, c := range contracts {
		if c == nil || c.Status != model.ContractStatusActive {
			continue
		}
		if bucket, _ := ClassifyContract(c, now, thresholdDays); bucket == want {
			out = append(out, c)
		}
	}
	return out
}
