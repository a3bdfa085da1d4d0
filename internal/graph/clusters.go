package graph

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"archmap/internal/classify"
)

const (
	// minSharedImporters is the co-import count below which a pair of
	// files is considered unrelated.
	minSharedImporters = 2
	// maxClusterMembers bounds a cluster to something a reader can hold
	// in their head.
	maxClusterMembers = 8
	minClusterMembers = 2
	maxClusters       = 7
	// minClusters triggers the directory fallback when co-import data is
	// too sparse.
	minClusters = 3
	// minDirMembers is the smallest directory grouping worth reporting.
	minDirMembers = 3
)

type filePair struct {
	a, b string
}

func pairKey(a, b string) filePair {
	if a > b {
		a, b = b, a
	}
	return filePair{a, b}
}

// ComputeClusters groups app files that are repeatedly imported together by
// the same callers. When the co-import signal is too thin it falls back to
// grouping by directory so small repos still get a usable module view.
func ComputeClusters(files []FileRecord, edges []DependencyEdge, cls *classify.Classifier) []Cluster {
	eligible := make(map[string]bool)
	for _, f := range files {
		if f.Kind != classify.KindApp || cls.IsTooling(f.Path) {
			continue
		}
		eligible[f.Path] = true
	}

	// Co-import score: +1 for every caller that imports both files.
	targetsBySource := make(map[string][]string)
	for _, e := range edges {
		if !eligible[e.Target] {
			continue
		}
		targetsBySource[e.Source] = append(targetsBySource[e.Source], e.Target)
	}
	pairScores := make(map[filePair]int)
	totals := make(map[string]int)
	for _, targets := range targetsBySource {
		sort.Strings(targets)
		for i := 0; i < len(targets); i++ {
			for j := i + 1; j < len(targets); j++ {
				if targets[i] == targets[j] {
					continue
				}
				pairScores[pairKey(targets[i], targets[j])]++
			}
		}
	}
	for pair, score := range pairScores {
		if score < minSharedImporters {
			continue
		}
		totals[pair.a] += score
		totals[pair.b] += score
	}

	// Seeds ordered by total affinity so the strongest grouping claims
	// its partners first.
	seeds := make([]string, 0, len(totals))
	for file := range totals {
		seeds = append(seeds, file)
	}
	sort.Slice(seeds, func(i, j int) bool {
		if totals[seeds[i]] != totals[seeds[j]] {
			return totals[seeds[i]] > totals[seeds[j]]
		}
		return seeds[i] < seeds[j]
	})

	used := make(map[string]bool)
	var clusters []Cluster
	for _, seed := range seeds {
		if used[seed] {
			continue
		}
		partners := clusterPartners(seed, pairScores, used)
		if len(partners) == 0 {
			continue
		}
		members := append([]string{seed}, partners...)
		sort.Strings(members)
		score := memberScore(members, pairScores)
		for _, m := range members {
			used[m] = true
		}
		clusters = append(clusters, Cluster{
			Members:   members,
			Rationale: fmt.Sprintf("co-imported by shared callers (affinity %d)", score),
		})
	}

	if len(clusters) < minClusters {
		clusters = append(clusters, directoryClusters(eligible, used)...)
	}

	sort.Slice(clusters, func(i, j int) bool {
		si := memberScore(clusters[i].Members, pairScores)
		sj := memberScore(clusters[j].Members, pairScores)
		if si != sj {
			return si > sj
		}
		return clusters[i].Members[0] < clusters[j].Members[0]
	})
	if len(clusters) > maxClusters {
		clusters = clusters[:maxClusters]
	}
	nameClusters(clusters)
	return clusters
}

// clusterPartners returns the unused files with the strongest affinity to
// the seed, capped so the cluster stays readable.
func clusterPartners(seed string, pairScores map[filePair]int, used map[string]bool) []string {
	type candidate struct {
		file  string
		score int
	}
	var cands []candidate
	for pair, score := range pairScores {
		if score < minSharedImporters {
			continue
		}
		other := ""
		switch seed {
		case pair.a:
			other = pair.b
		case pair.b:
			other = pair.a
		default:
			continue
		}
		if used[other] {
			continue
		}
		cands = append(cands, candidate{other, score})
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].score != cands[j].score {
			return cands[i].score > cands[j].score
		}
		return cands[i].file < cands[j].file
	})
	if len(cands) > maxClusterMembers-1 {
		cands = cands[:maxClusterMembers-1]
	}
	partners := make([]string, len(cands))
	for i, c := range cands {
		partners[i] = c.file
	}
	return partners
}

func memberScore(members []string, pairScores map[filePair]int) int {
	total := 0
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			total += pairScores[pairKey(members[i], members[j])]
		}
	}
	return total
}

// directoryClusters groups the leftover files by parent directory. A
// directory needs a few files before it says anything about structure.
func directoryClusters(eligible map[string]bool, used map[string]bool) []Cluster {
	byDir := make(map[string][]string)
	for file := range eligible {
		if used[file] {
			continue
		}
		byDir[path.Dir(file)] = append(byDir[path.Dir(file)], file)
	}
	dirs := make([]string, 0, len(byDir))
	for dir, members := range byDir {
		if len(members) < minDirMembers {
			continue
		}
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	var clusters []Cluster
	for _, dir := range dirs {
		members := byDir[dir]
		sort.Strings(members)
		if len(members) > maxClusterMembers {
			members = members[:maxClusterMembers]
		}
		clusters = append(clusters, Cluster{
			Members:   members,
			Rationale: fmt.Sprintf("files colocated under %s", dir),
		})
	}
	return clusters
}

// nameClusters derives a display name from each cluster's first member,
// disambiguating collisions with a higher path segment or, failing that, a
// numeric suffix.
func nameClusters(clusters []Cluster) {
	counts := make(map[string]int)
	bases := make([]string, len(clusters))
	for i := range clusters {
		bases[i] = clusterBaseName(clusters[i].Members[0])
		counts[bases[i]]++
	}
	taken := make(map[string]int)
	for i := range clusters {
		name := bases[i]
		if counts[name] > 1 {
			if seg := distinguishingSegment(clusters[i].Members[0]); seg != "" && seg != name {
				name = seg + "/" + name
			}
		}
		// The segment may collide too; the numeric suffix is the backstop.
		taken[name]++
		if taken[name] > 1 {
			name = fmt.Sprintf("%s-%d", name, taken[name])
		}
		clusters[i].Name = name
	}
}

func clusterBaseName(member string) string {
	dir := path.Dir(member)
	if dir == "." || dir == "/" {
		return "root"
	}
	return path.Base(dir)
}

// distinguishingSegment returns the path segment above the immediate parent
// directory, which is usually enough to tell two same-named dirs apart.
func distinguishingSegment(member string) string {
	parts := strings.Split(path.Dir(member), "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-2]
}
