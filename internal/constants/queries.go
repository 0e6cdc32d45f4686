package constants

// ListZipCodesByState selects the reference postal codes of one region.
// A zip listed more than once is returned once, at its first row.
const ListZipCodesByState = `
	SELECT id, zip, state, primary_city, county, timezone
	FROM zip_code
	WHERE id IN (
		SELECT MIN(id)
		FROM zip_code
		WHERE state = ? AND zip IS NOT NULL
		GROUP BY zip
	)
	ORDER BY id
`
