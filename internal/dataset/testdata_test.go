package dataset

const povertyCSV = `Zipcode,RACE AND HISPANIC OR LATINO ORIGIN,Total,Below poverty level,Percent below poverty level,Stats
Illinois,American Indian and Alaska Native alone,"40,000",5000,12.5,Estimate
60601,American Indian and Alaska Native alone,12000,1500,12.5,Estimate
60601,American Indian and Alaska Native alone,300,50,1.1,Margin of Error
60602,American Indian and Alaska Native alone,9999,2000,20.0,Estimate
60603,American Indian and Alaska Native alone,10000,1160,11.6,Estimate
60604,American Indian and Alaska Native alone,25000,1000,4.0,Estimate
60601,White alone,30000,3000,10.0,Estimate
60602,White alone,15000,4500,30.0,Estimate
60605,White alone,0,0,-,Estimate
61820.0,Asian alone,8000,2400,30.0,Estimate
`

const ageCSV = `Zipcode,Age group,Estimate
60601,Under 5 years,100
60601,5 to 17 years,250
60601,18 to 64 years,900
60601,65 years and over,150
60602,Under 5 years,80
60602,18 to 64 years,700
`
