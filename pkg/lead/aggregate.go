package lead

import "sort"

// CompanyScore is one company's aggregated total over all of its records in
// the snapshot. firstSeen is the index of the company's first record in the
// input sequence and decides score ties downstream.
type CompanyScore struct {
	CompanyName string `json:"company_name"`
	TotalScore  int    `json:"total_score"`
	Records     int    `json:"records"`

	firstSeen int
}

// RankedLead is a CompanyScore with its 1-based rank position.
type RankedLead struct {
	Rank int `json:"rank"`
	CompanyScore
}

// Aggregate folds scored records into per-company totals. The result is in
// first-occurrence order of the input; every company with at least one record
// appears, even when all of its records score 0.
func Aggregate(records []Record, scorer *Scorer) []CompanyScore {
	index := make(map[string]int, len(records))
	var companies []CompanyScore

	for _, rec := range records {
		i, seen := index[rec.CompanyName]
		if !seen {
			i = len(companies)
			index[rec.CompanyName] = i
			companies = append(companies, CompanyScore{
				CompanyName: rec.CompanyName,
				firstSeen:   i,
			})
		}
		companies[i].TotalScore += scorer.Score(rec)
		companies[i].Records++
	}

	return companies
}

// Rank sorts companies by descending total score, breaking ties by first
// appearance in the original input, and cuts to the top n. Fewer than n
// companies returns all of them. The ordering is deterministic for a given
// input.
func Rank(companies []CompanyScore, n int) []RankedLead {
	sorted := make([]CompanyScore, len(companies))
	copy(sorted, companies)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].TotalScore != sorted[j].TotalScore {
			return sorted[i].TotalScore > sorted[j].TotalScore
		}
		return sorted[i].firstSeen < sorted[j].firstSeen
	})

	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}

	leads := make([]RankedLead, len(sorted))
	for i, c := range sorted {
		leads[i] = RankedLead{Rank: i + 1, CompanyScore: c}
	}
	return leads
}

// CrossSeminar returns the subset of a company's history hosted by someone
// other than the given organizer. The current organizer's own seminars carry
// no differentiating interest signal, so they are dropped from the keyword
// corpus. An empty result means the company only attended the current
// organizer's events in the lookback window.
func CrossSeminar(history []Record, organizerCode string) []Record {
	var out []Record
	for _, rec := range history {
		if rec.OrganizerCode != organizerCode {
			out = append(out, rec)
		}
	}
	return out
}
