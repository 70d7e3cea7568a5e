package arxiv

// categoryNames maps arXiv category codes to human-readable names
// (supplemented feature, grounded on pnocera-SciFind's getCategoryName).
// Categories with no mapping fall back to the raw code.
var categoryNames = map[string]string{
	"cs.AI": "Artificial Intelligence",
	"cs.CL": "Computation and Language",
	"cs.CV": "Computer Vision and Pattern Recognition",
	"cs.LG": "Machine Learning",
	"cs.DS": "Data Structures and Algorithms",
	"cs.DB": "Databases",
	"cs.DC": "Distributed, Parallel, and Cluster Computing",
	"cs.CR": "Cryptography and Security",
	"cs.IR": "Information Retrieval",
	"cs.IT": "Information Theory",
	"cs.NE": "Neural and Evolutionary Computing",
	"cs.RO": "Robotics",
	"cs.SE": "Software Engineering",
	"math.CO": "Combinatorics",
	"math.ST": "Statistics Theory",
	"math.PR": "Probability",
	"math.NA": "Numerical Analysis",
	"physics.data-an": "Data Analysis, Statistics and Probability",
	"physics.comp-ph": "Computational Physics",
	"stat.ML": "Machine Learning",
	"stat.AP": "Applications",
	"stat.ME": "Methodology",
	"q-bio.GN": "Genomics",
	"q-bio.QM": "Quantitative Methods",
	"q-fin.CP": "Computational Finance",
	"q-fin.ST": "Statistical Finance",
	"econ.EM":  "Econometrics",
	"econ.GN":  "General Economics",
	"eess.SP":  "Signal Processing",
	"eess.IV":  "Image and Video Processing",
}

// categoryName returns the human-readable name for term, or term itself
// when unmapped.
func categoryName(term string) string {
	if name, ok := categoryNames[term]; ok {
		return name
	}
	return term
}
