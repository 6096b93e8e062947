/*
Package vet plumbs candidates, prober, and aggregation together into the
“remove dead servers” pipeline: fan the candidates out to a size-limited
[probe.Prober], wait at the join point until every probe has reported back,
then boil the verdicts down to the sorted raw lines of the survivors.

	              +-----+              +-----------+
	[]Candidate-->| All +-->Verdicts-->| Survivors +-->[]string
	              +-----+              +-----------+

The aggregation is strictly batch-style: [All] only returns after the last
probe has come back, so consumers always see the complete result set and
never a partial one.
*/
package vet
