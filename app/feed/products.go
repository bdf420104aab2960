package feed

import (
	"strings"
)

// knownProducts is the lookup lexicon for product tagging. Matching is
// case-insensitive on the display name or any of its aliases; the display
// name is what lands in categories.
var knownProducts = []struct {
	Name    string
	Aliases []string
}{
	{Name: "Compute Engine", Aliases: []string{"gce"}},
	{Name: "Kubernetes Engine", Aliases: []string{"gke", "google kubernetes engine"}},
	{Name: "Cloud Run", Aliases: nil},
	{Name: "Cloud Functions", Aliases: nil},
	{Name: "App Engine", Aliases: nil},
	{Name: "Cloud Storage", Aliases: []string{"gcs"}},
	{Name: "BigQuery", Aliases: nil},
	{Name: "Cloud SQL", Aliases: nil},
	{Name: "Spanner", Aliases: []string{"cloud spanner"}},
	{Name: "Bigtable", Aliases: []string{"cloud bigtable"}},
	{Name: "Firestore", Aliases: nil},
	{Name: "Memorystore", Aliases: nil},
	{Name: "AlloyDB", Aliases: nil},
	{Name: "Pub/Sub", Aliases: []string{"pubsub", "cloud pub/sub"}},
	{Name: "Dataflow", Aliases: nil},
	{Name: "Dataproc", Aliases: nil},
	{Name: "Composer", Aliases: []string{"cloud composer"}},
	{Name: "Vertex AI", Aliases: nil},
	{Name: "Cloud Build", Aliases: nil},
	{Name: "Artifact Registry", Aliases: nil},
	{Name: "Cloud Armor", Aliases: nil},
	{Name: "Cloud CDN", Aliases: nil},
	{Name: "Cloud DNS", Aliases: nil},
	{Name: "Cloud Load Balancing", Aliases: []string{"load balancer"}},
	{Name: "Cloud VPN", Aliases: nil},
	{Name: "VPC", Aliases: []string{"virtual private cloud"}},
	{Name: "IAM", Aliases: []string{"identity and access management"}},
	{Name: "Secret Manager", Aliases: nil},
	{Name: "Cloud KMS", Aliases: []string{"key management service"}},
	{Name: "Cloud Logging", Aliases: nil},
	{Name: "Cloud Monitoring", Aliases: nil},
	{Name: "Anthos", Aliases: nil},
	{Name: "Apigee", Aliases: nil},
	{Name: "Looker", Aliases: nil},
	{Name: "Dataplex", Aliases: nil},
	{Name: "Cloud Interconnect", Aliases: nil},
	{Name: "Filestore", Aliases: nil},
}

// ExtractProducts returns the display names of all known products mentioned
// in text, in lexicon order, without duplicates.
func ExtractProducts(text string) []string {
	lower := strings.ToLower(text)

	var found []string
	for _, product := range knownProducts {
		if containsToken(lower, strings.ToLower(product.Name)) {
			found = append(found, product.Name)
			continue
		}
		for _, alias := range product.Aliases {
			if containsToken(lower, alias) {
				found = append(found, product.Name)
				break
			}
		}
	}

	return found
}

// containsToken matches needle in haystack on word boundaries so that "gce"
// does not fire inside an unrelated word.
func containsToken(haystack, needle string) bool {
	idx := 0
	for {
		i := strings.Index(haystack[idx:], needle)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(needle)

		beforeOK := start == 0 || !isWordChar(haystack[start-1])
		afterOK := end == len(haystack) || !isWordChar(haystack[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}
